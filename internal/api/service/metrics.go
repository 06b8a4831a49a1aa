package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("api.service")
	meter  = otel.Meter("api.service")

	usersRegistered, _ = meter.Int64Counter("todo.users.registered",
		metric.WithDescription("Users created through registration."))
	loginsSucceeded, _ = meter.Int64Counter("todo.logins",
		metric.WithDescription("Successful password logins."))
	tasksCreated, _ = meter.Int64Counter("todo.tasks.created",
		metric.WithDescription("Tasks created."))
	tasksCompleted, _ = meter.Int64Counter("todo.tasks.completed",
		metric.WithDescription("Tasks moved to DONE."))
)
