// Command order serves the Order HTTP surface: the client-facing
// cart/checkout API and the endpoints the cron snapshot controller and
// the reconciliation processors on Stock/Payment call into.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cedbanana/dds25-2/internal/config"
	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/logging"
	"github.com/cedbanana/dds25-2/internal/orderhttp"
	"github.com/cedbanana/dds25-2/internal/rpcwire"
	"github.com/cedbanana/dds25-2/internal/snapshot"
)

const readCacheSize = 8192

type args struct {
	Config string `long:"config" required:"true" description:"Path to YAML configuration file"`
	Listen string `long:"listen" default:":8080" description:"HTTP listen address"`
}

func run(cmd args) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return err
	}
	logger := logging.Service("order")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	store, err := kv.New(rdb, readCacheSize)
	if err != nil {
		return fmt.Errorf("building store: %w", err)
	}

	etcd, err := clientv3.New(clientv3.Config{Endpoints: cfg.Etcd})
	if err != nil {
		return fmt.Errorf("dialing etcd: %w", err)
	}
	defer etcd.Close()
	halter := snapshot.NewHalter(store, etcd, "order")

	stockConn, err := grpc.NewClient(cfg.Peers.Stock, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dialing stock: %w", err)
	}
	defer stockConn.Close()
	stockClient := rpcwire.NewStockClient(stockConn)

	paymentConn, err := grpc.NewClient(cfg.Peers.Payment, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dialing payment: %w", err)
	}
	defer paymentConn.Close()
	paymentClient := rpcwire.NewPaymentClient(paymentConn)

	srv := orderhttp.New(store, stockClient, paymentClient, halter, cfg.Saga, logger, cfg.Replica.Count, cfg.Replica.Count)

	httpServer := &http.Server{
		Addr:    cmd.Listen,
		Handler: srv.Router(),
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalCh
		logger.WithField("signal", sig).Info("caught signal, stopping")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()

	logger.WithField("listen", cmd.Listen).Info("starting order service")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func main() {
	var opts args
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		log.WithError(err).Fatal("order service failed")
	}
}
