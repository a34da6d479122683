package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warung-pos/internal/config"
	"warung-pos/internal/database"
	"warung-pos/internal/logger"
	"warung-pos/internal/messaging"
	"warung-pos/internal/services/auth"
	"warung-pos/internal/services/menu"
	"warung-pos/internal/services/notification"
	"warung-pos/internal/services/order"
	"warung-pos/internal/services/payment"
	"warung-pos/internal/services/report"
	"warung-pos/internal/services/web"
)

func main() {
	var (
		mode     = flag.String("mode", "", "Service mode (pos-server, notification-subscriber)")
		port     = flag.Int("port", 3000, "HTTP port")
		queue    = flag.String("queue", messaging.KitchenQueue, "Queue to consume (notification-subscriber mode)")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "pos-server":
		if err := runPOSServer(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", "POS server failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *queue, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runPOSServer runs the HTTP API with all services wired up.
func runPOSServer(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// The API keeps serving without RabbitMQ; notifications are best effort.
	var notifier order.Notifier
	conn, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("rabbitmq_unavailable", "Display notifications disabled", requestID, err, nil)
	} else {
		defer conn.Close()
		notifier = messaging.NewPublisher(conn, log)
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
	}

	store := database.NewStore(db)

	authService := auth.NewService(db, cfg.Auth, log)
	orderService := order.NewService(store, notifier, log)
	paymentService := payment.NewService(store, log)
	menuService := menu.NewService(db, log)
	reportService := report.NewService(db, log)

	mux := http.NewServeMux()
	auth.NewHandler(authService, log).Register(mux)
	order.NewHandler(orderService, authService, log).Register(mux)
	payment.NewHandler(paymentService, authService, log).Register(mux)
	menu.NewHandler(menuService, authService, log).Register(mux)
	report.NewHandler(reportService, authService, log).Register(mux)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, pingCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer pingCancel()

		status := http.StatusOK
		body := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "pos-server",
		}
		if err := db.Ping(pingCtx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
		}
		web.WriteJSON(w, status, body)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: withLogging(log, mux),
	}

	go func() {
		log.Info("server_started", fmt.Sprintf("POS server listening on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber consumes one display queue and renders its
// messages.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, queue string, prefetch int) error {
	if queue != messaging.KitchenQueue && queue != messaging.CashierQueue {
		return fmt.Errorf("unknown queue %q", queue)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, queue, "display-"+queue, prefetch)
	subscriber := notification.NewSubscriber(consumer, log)
	return subscriber.Start(ctx)
}

// withLogging logs every request with its status code and duration.
func withLogging(log *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": r.RemoteAddr,
			})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
