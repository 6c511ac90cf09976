// Command stock serves the Stock RPC surface: a gRPC server plus a
// background reconciliation consumer against the transactions stream.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cedbanana/dds25-2/internal/config"
	"github.com/cedbanana/dds25-2/internal/kv"
	"github.com/cedbanana/dds25-2/internal/logging"
	"github.com/cedbanana/dds25-2/internal/reconcile"
	"github.com/cedbanana/dds25-2/internal/rpcwire"
	"github.com/cedbanana/dds25-2/internal/snapshot"
	"github.com/cedbanana/dds25-2/internal/stockservice"
)

// readCacheSize bounds internal/kv's read-through LRU in front of
// FindItem/FindUser-shaped Get calls.
const readCacheSize = 8192

type args struct {
	Config string `long:"config" required:"true" description:"Path to YAML configuration file"`
	Listen string `long:"listen" default:":50051" description:"gRPC listen address"`
}

func run(cmd args) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return err
	}
	logger := logging.Service("stock")

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

	halter := snapshot.NewHalter(store, etcd, "stock")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := halter.EnsureHaltedCounterExists(ctx); err != nil {
		return fmt.Errorf("seeding halted counter: %w", err)
	}

	paymentConn, err := grpc.NewClient(cfg.Peers.Payment, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dialing payment: %w", err)
	}
	defer paymentConn.Close()
	paymentClient := rpcwire.NewPaymentClient(paymentConn)

	ledger := &reconcile.Ledger{
		Store:          store,
		Field:          "stock",
		CommittedField: "committed_stock",
		OnCommit:       commitCheckoutCaller(cfg.Peers.Order, logger),
	}

	svc := stockservice.New(store, halter, ledger, logger, cfg.Replica.Count, cfg.Saga.VibeCheckRetries, cfg.Saga.VibeCheckInterval)

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(rpcwire.ErrorMappingInterceptor))
	rpcwire.RegisterStockServer(grpcServer, svc)

	processor := &reconcile.Processor{
		Store:     store,
		Ledger:    ledger,
		Peer:      reconcile.PaymentPeer{Client: paymentClient, Log: logger},
		Halter:    halter,
		Log:       logger,
		JitterMin: cfg.Saga.JitterMin,
		JitterMax: cfg.Saga.JitterMax,
	}
	consumer := kv.ConsumerID(cfg.Replica.Index)
	go func() {
		if err := store.StreamConsume(ctx, consumer, processor.Handle); err != nil {
			logger.WithError(err).Error("reconciliation consumer exited")
		}
	}()

	lis, err := net.Listen("tcp", cmd.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cmd.Listen, err)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-signalCh
		logger.WithField("signal", sig).Info("caught signal, stopping")
		cancel()
		grpcServer.GracefulStop()
	}()

	logger.WithField("listen", cmd.Listen).Info("starting stock service")
	return grpcServer.Serve(lis)
}

// commitCheckoutCaller builds the best-effort /commit_checkout/<tid> call
// that fires once a leg's Ledger.Apply resolves both sides SUCCESS; both
// legs may call it safely since Order's own transaction is deleted on
// first arrival.
func commitCheckoutCaller(orderBaseURL string, logger *log.Entry) func(ctx context.Context, tid string) {
	return func(ctx context.Context, tid string) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, orderBaseURL+"/commit_checkout/"+tid, nil)
		if err != nil {
			logger.WithError(err).WithField("tid", tid).Warn("building commit_checkout request")
			return
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			logger.WithError(err).WithField("tid", tid).Warn("commit_checkout call failed")
			return
		}
		resp.Body.Close()
	}
}

func main() {
	var opts args
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
	if err := run(opts); err != nil {
		log.WithError(err).Fatal("stock service failed")
	}
}
