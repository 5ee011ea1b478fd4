package main

import (
	"context"
	"log"
	"os"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/modules/activity"
	"github.com/example/todo-list-demo/modules/api"
	"github.com/example/todo-list-demo/modules/broadcast"
	"github.com/example/todo-list-demo/modules/todo"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	log.Println("=== Todo List Demo - Task Store + Fiber + WebSocket ===")

	cfg := loadConfig()

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// The single task store of this process
	store := task.NewStore()

	// Create modules
	activityModule := activity.NewModule(cfg.ActivityDBPath, cfg.DBDebug, logger.WithModule("activity"))
	todoModule := todo.NewModule(store, logger.WithModule("todo"))
	broadcastModule := broadcast.NewModule(logger.WithModule("broadcast"))
	apiModule := api.NewModule(api.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
		ActivityLimit:  cfg.ActivityLimit,
	}, logger.WithModule("api"))

	// The hub is not exposed via ServiceContainer, so it is injected here
	apiModule.SetHub(broadcastModule.Hub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - activity: Activity log (EventConsumerModule + ServiceProviderModule, GORM/SQLite)
	// - todo: Core domain (ServiceProviderModule + EventEmitterModule)
	// - broadcast: WebSocket hub (EventConsumerModule, depends on todo)
	// - api: Driving adapter (Fiber HTTP/WebSocket, depends on todo and activity)
	app.Register(activityModule)
	app.Register(todoModule)
	app.Register(broadcastModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Modules:")
	log.Println("  - todo:      task store services + task events")
	log.Println("  - activity:  activity log (GORM + SQLite)")
	log.Println("  - broadcast: WebSocket snapshot push on every task event")
	log.Println("  - api:       Fiber HTTP + WebSocket")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", cfg.Port)
	log.Println("  GET    /health                      - Health check")
	log.Println("  GET    /api/v1/tasks                - Both collections (Todo List, Completed)")
	log.Println("  POST   /api/v1/tasks                - Add a task {\"title\": \"...\"}")
	log.Println("  PUT    /api/v1/tasks/:id            - Edit an active task {\"title\": \"...\"}")
	log.Println("  POST   /api/v1/tasks/:id/complete   - Complete an active task")
	log.Println("  DELETE /api/v1/tasks/:id            - Delete an active task")
	log.Println("  GET    /api/v1/activity?limit=n     - Activity log, newest first")
	log.Println("  GET    /api/v1/activity/:id         - One activity entry")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", cfg.Port)
	log.Println("  Receives {\"type\":\"snapshot\",\"categories\":{...}} on connect and after every change")
	log.Println("")
	log.Println("Terminal UI: go run ./cmd/todo-tui")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
