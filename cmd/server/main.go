package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"petstores/pkg/cart"
	cartmemory "petstores/pkg/cart/memory"
	cartredis "petstores/pkg/cart/redis"
	"petstores/pkg/catalog"
	catalogpg "petstores/pkg/catalog/postgres"
	"petstores/pkg/logger"
	"petstores/pkg/otel"
	"petstores/pkg/shop"
	shopmcp "petstores/pkg/shop/mcp"
)

func main() {
	log, err := logger.New("petstores")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger) error {
	ctx := context.Background()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{
		ServiceName: "petstores",
		Host:        os.Getenv("OTEL_HOST"),
		Probability: 1.0,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdown(ctx)
	tracer := tp.Tracer("petstores")

	cat := catalog.Default()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		if err := catalogpg.Ensure(ctx, db, cat.All()); err != nil {
			return err
		}
		items, err := catalogpg.Load(ctx, db)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		cat = catalog.New(items)
		log.Info("catalog loaded from postgres", zap.Int("products", len(items)))
	}

	var carts cart.Store = cartmemory.New()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		carts = cartredis.New(client)
		log.Info("using redis cart store", zap.String("addr", addr))
	}

	svc := shop.New(cat, carts, log)
	mcpServer := shopmcp.NewServer(svc)

	r := mux.NewRouter()
	r.Use(traceMiddleware(tracer))
	r.HandleFunc("/", healthHandler).Methods(http.MethodGet)
	r.PathPrefix("/mcp").Handler(shopmcp.NewHTTPServer(mcpServer))

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Mcp-Session-Id"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	}).Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}
	log.Info("listening", zap.String("addr", ":"+port))
	return http.ListenAndServe(":"+port, handler)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("Petstores MCP server"))
}

func traceMiddleware(tracer trace.Tracer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.InjectTracing(r.Context(), tracer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
