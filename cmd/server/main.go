package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/internal/api/handlers"
	"github.com/sahajranjan/vidpilot/internal/api/middleware"
	"github.com/sahajranjan/vidpilot/internal/generator"
	job "github.com/sahajranjan/vidpilot/internal/jobs"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/pipeline"
	"github.com/sahajranjan/vidpilot/internal/queue"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/internal/scheduler"
	"github.com/sahajranjan/vidpilot/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	sched, err := config.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		log.Fatalf("Failed to load schedule: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Api-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	productionRepo := repository.NewProductionRepository(db)
	publishRepo := repository.NewPublishRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	eventRepo := repository.NewAutomationEventRepository(db)

	storageService := service.NewStorageService(*cfg)
	youtubeService := service.NewYoutubeService(*cfg, channelRepo)

	productionPipeline := pipeline.NewPipeline(productionRepo, storageService, cfg.WorkDir,
		generator.NewScriptGenerator(cfg.OpenAI),
		generator.NewThumbnailGenerator(cfg.ThumbnailEndpoint),
		generator.NewVideoGenerator(cfg.Replicate),
		generator.NewAudioGenerator(cfg.ElevenLabs),
		generator.NewCaptionGenerator(),
		generator.NewAssemblyGenerator(cfg.FFmpegPath),
	)

	publishQueue := queue.NewPublishQueue(publishRepo, productionRepo, youtubeService)
	if err := publishQueue.Restore(context.Background()); err != nil {
		log.Fatalf("Failed to restore publish queue: %v", err)
	}

	strategyService := service.NewStrategyService(sched, publishRepo, eventRepo, youtubeService, publishQueue)
	analyticsService := service.NewAnalyticsService(publishRepo, youtubeService)
	refreshTokenJob := job.NewTokenRefreshJob(channelRepo, youtubeService)

	sch := scheduler.New(eventRepo)
	registerTasks(sch, sched, client, publishQueue, productionPipeline, productionRepo,
		strategyService, analyticsService, storageService, refreshTokenJob)
	sch.Start(context.Background())
	defer sch.Stop()

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg)
	app.Post("/login", auth.Login)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	production := handlers.NewProductionHandler(productionRepo)
	api.Get("/productions", production.ListProductions)
	api.Get("/productions/progress", production.GetProgress)

	queueHandler := handlers.NewQueueHandler(publishQueue)
	api.Get("/queue", queueHandler.ListEntries)
	api.Post("/queue/pause", queueHandler.PauseEntry)
	api.Post("/queue/resume", queueHandler.ResumeEntry)
	api.Post("/queue/publish", queueHandler.PublishEntry)
	api.Post("/queue/drain", queueHandler.DrainNow)

	channelHandler := handlers.NewChannelHandler(*cfg, channelRepo)
	api.Get("/channel", channelHandler.GetChannel)
	api.Post("/channel", channelHandler.RegisterChannel)

	schedulerHandler := handlers.NewSchedulerHandler(sch, eventRepo)
	api.Get("/tasks", schedulerHandler.ListTasks)
	api.Post("/tasks/enable", schedulerHandler.EnableTask)
	api.Post("/tasks/disable", schedulerHandler.DisableTask)
	api.Post("/tasks/run", schedulerHandler.RunTask)
	api.Get("/events", schedulerHandler.ListEvents)

	worker := queue.NewWorker(productionPipeline, publishQueue)

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			// Media generation is heavy; one production at a time.
			Concurrency: 1,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeGenerate, worker.HandleGenerateTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func registerTasks(
	sch *scheduler.Scheduler,
	sched *config.Schedule,
	client *asynq.Client,
	publishQueue *queue.PublishQueue,
	productionPipeline *pipeline.Pipeline,
	productionRepo repository.ProductionRepository,
	strategyService service.StrategyService,
	analyticsService service.AnalyticsService,
	storageService *service.StorageService,
	refreshTokenJob *job.TokenRefreshJob,
) {
	bodies := map[string]scheduler.TaskFunc{
		"content-generation": func(ctx context.Context) error {
			ok, reason, err := strategyService.ShouldGenerate(ctx, time.Now())
			if err != nil {
				return err
			}
			if !ok {
				return scheduler.Skip(reason)
			}
			brief := strategyService.NextBrief(time.Now())
			return queue.EnqueueGeneration(client, queue.GeneratePayload{Brief: brief})
		},
		"queue-drain": func(ctx context.Context) error {
			publishQueue.Drain(ctx, time.Now())
			return nil
		},
		"analytics": func(ctx context.Context) error {
			_, err := analyticsService.Collect(ctx, time.Now())
			return err
		},
		"strategy-review": func(ctx context.Context) error {
			return strategyService.ReviewStrategy(ctx, time.Now())
		},
		"optimization": func(ctx context.Context) error {
			if _, err := strategyService.OptimizePublishTimes(ctx, time.Now()); err != nil {
				return err
			}
			// Pick up productions stranded mid-pipeline by a crash.
			stranded, err := productionRepo.ListByStatus(ctx, models.ProductionStatusProcessing)
			if err != nil {
				return err
			}
			for _, production := range stranded {
				if time.Since(production.UpdatedAt) < time.Hour {
					continue
				}
				if _, err := productionPipeline.Resume(ctx, production.ID); err != nil {
					log.Printf("Resume of production %d failed: %v", production.ID, err)
				}
			}
			return nil
		},
		"storage-maintenance": func(ctx context.Context) error {
			_, err := storageService.Prune(ctx, time.Now().AddDate(0, 0, -90))
			return err
		},
		"token-refresh": func(ctx context.Context) error {
			return refreshTokenJob.RefreshTokens(ctx)
		},
	}

	for name, fn := range bodies {
		spec, ok := sched.Triggers[name]
		if !ok {
			log.Printf("No trigger configured for task %q, skipping", name)
			continue
		}
		trigger, err := scheduler.ParseTrigger(spec)
		if err != nil {
			log.Fatalf("Invalid trigger for task %q: %v", name, err)
		}
		if err := sch.Register(name, trigger, fn); err != nil {
			log.Fatalf("Failed to register task %q: %v", name, err)
		}
	}
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
