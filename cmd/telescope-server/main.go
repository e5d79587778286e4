package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/signalsfoundry/solary/catalog"
	"github.com/signalsfoundry/solary/constants"
	"github.com/signalsfoundry/solary/internal/logging"
	"github.com/signalsfoundry/solary/internal/observability"
	"github.com/signalsfoundry/solary/internal/service"
)

func main() {
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	grpcAddr := flag.String("grpc-addr", ":50061", "TCP address the gRPC server listens on")
	metricsAddr := flag.String("metrics-addr", ":9091", "HTTP address for Prometheus /metrics (empty disables)")
	inventoryPath := flag.String("inventory", "configs/inventory.json", "JSON inventory of reflectors and CCDs loaded at startup")
	constantsPath := flag.String("constants", "", "optional YAML constants override")
	flag.Parse()

	envErr := loadEnv(*envFile)

	log := logging.NewFromEnv().With(logging.String("component", "telescope-server"))
	ctx := context.Background()

	if envErr != nil {
		log.Warn(ctx, "failed to load env file", logging.String("path", *envFile), logging.Err(envErr))
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	consts, err := constants.LoadFile(*constantsPath)
	if err != nil {
		log.Error(ctx, "failed to load constants", logging.String("path", *constantsPath), logging.Err(err))
		os.Exit(1)
	}

	rpcMetrics, err := observability.NewRPCCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error(ctx, "failed to initialise rpc metrics", logging.Err(err))
		os.Exit(1)
	}
	evalMetrics, err := observability.NewEvaluationCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error(ctx, "failed to initialise evaluation metrics", logging.Err(err))
		os.Exit(1)
	}

	cat := catalog.New()
	unbind := service.BindCatalogMetrics(cat, rpcMetrics)
	defer unbind()
	loadInventory(ctx, log, cat, *inventoryPath)

	server := newGRPCServer(log, cat, consts, rpcMetrics, evalMetrics)

	var metricsSrv *http.Server
	if *metricsAddr != "" {
		metricsSrv = serveMetrics(*metricsAddr, rpcMetrics, log)
	}

	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		log.Error(ctx, "failed to listen for gRPC", logging.String("addr", *grpcAddr), logging.Err(err))
		os.Exit(1)
	}

	log.Info(ctx, "starting telescope gRPC server", logging.String("addr", *grpcAddr))
	go func() {
		if err := server.Serve(lis); err != nil {
			log.Error(ctx, "gRPC server exited", logging.Err(err))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down telescope server")
	server.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

// newGRPCServer builds the gRPC server with the interceptor chain and the
// TelescopeService registered.
func newGRPCServer(
	log logging.Logger,
	cat *catalog.Catalog,
	consts *constants.Constants,
	rpcMetrics *observability.RPCCollector,
	evalMetrics *observability.EvaluationCollector,
) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			service.RequestIDUnaryServerInterceptor(log),
			service.TracingUnaryServerInterceptor(),
			rpcMetrics.UnaryServerInterceptor(),
		),
	)
	service.RegisterTelescopeServiceServer(server, service.NewTelescopeService(cat, consts, evalMetrics, log))
	return server
}

// loadEnv loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func loadInventory(ctx context.Context, log logging.Logger, cat *catalog.Catalog, path string) {
	if path == "" {
		return
	}
	inv, err := catalog.LoadInventoryFile(cat, path)
	if err != nil {
		log.Warn(ctx, "skipping instrument inventory", logging.String("path", path), logging.Err(err))
		return
	}
	log.Info(ctx, "loaded instrument inventory",
		logging.String("path", path),
		logging.Int("reflectors", len(inv.Reflectors)),
		logging.Int("ccds", len(inv.CCDs)),
	)
}

func serveMetrics(addr string, collector *observability.RPCCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
