package main

import (
	"context"
	"errors"
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/config"
	"github.com/oksasatya/go-ddd-task-manager/internal/application"
	"github.com/oksasatya/go-ddd-task-manager/internal/container"
	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
)

var demoTasks = []application.CreateTaskInput{
	{Title: "Read the onboarding guide", Description: "Skim the README and DESIGN docs", Status: entity.TaskStatusDone},
	{Title: "Set up local environment", Description: "docker compose up, then run migrations", Status: entity.TaskStatusInProgress},
	{Title: "Write the first task", Description: "POST /tasks with a bearer token"},
}

// seed creates the demo user, or signs in if it already exists, and adds demo tasks
// when the user has none.
func seed(ctx context.Context, auth *application.AuthService, tasks *application.TaskService, email, password, name string) (*application.AuthResult, int, error) {
	res, err := auth.SignUp(ctx, email, password, name)
	if errors.Is(err, application.ErrEmailTaken) {
		res, err = auth.SignIn(ctx, email, password)
	}
	if err != nil {
		return nil, 0, err
	}

	page, err := tasks.List(ctx, res.User.ID, application.ListTasksInput{PageSize: 1})
	if err != nil {
		return nil, 0, err
	}
	if page.Pagination.Total > 0 {
		return res, 0, nil
	}
	for _, in := range demoTasks {
		if _, err := tasks.Create(ctx, res.User.ID, in); err != nil {
			return nil, 0, err
		}
	}
	return res, len(demoTasks), nil
}

func main() {
	_ = godotenv.Load()
	email := flag.String("email", "demo@example.com", "demo user email")
	password := flag.String("password", "password123", "demo user password")
	name := flag.String("name", "Demo User", "demo user name")
	flag.Parse()

	cfg := config.Load()
	// Seeding never sends mail.
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	app, cleanup, err := container.Build(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
	defer cleanup()

	res, created, err := seed(ctx, app.AuthService(), app.TaskService(), *email, *password, *name)
	if err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
	logger.WithFields(logrus.Fields{
		"user_id":       res.User.ID,
		"email":         res.User.Email,
		"tasks_created": created,
	}).Info("seeded demo user")
	logger.WithField("access_token", res.AccessToken).Debug("demo token")
}
