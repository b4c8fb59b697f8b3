package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/wasm-image-filters/internal"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const defaultMaxUploadBytes = 32 << 20

func ApiServer(port int, debug bool) {
	internal.StartupInfo(debug)

	maxUploadBytes, err := envInt64("FILTERS_MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	RegisterFilterRoutes(r, maxUploadBytes)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d (max upload %d bytes)...", port, maxUploadBytes)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP API Server failed to start on port %d: %v", port, err)
	}
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("environment variable %s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
