// Command cron is the snapshot controller: one run drives
// PrepareSnapshot -> CheckSnapshotReady -> Snapshot -> Continue across
// Order, Stock, and Payment. It is meant to be invoked periodically by
// an actual system cron (or an equivalent scheduler), not to run as a
// long-lived daemon itself.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	flags "github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cedbanana/dds25-2/internal/config"
	"github.com/cedbanana/dds25-2/internal/logging"
	"github.com/cedbanana/dds25-2/internal/rpcwire"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

type args struct {
	Config  string        `long:"config" required:"true" description:"Path to YAML configuration file"`
	Timeout time.Duration `long:"timeout" default:"30s" description:"Overall deadline for one snapshot pass"`
}

func run(ctx context.Context, cmd args) error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return err
	}
	logger := logging.Service("cron")

	stockConn, err := grpc.NewClient(cfg.Peers.Stock, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dialing stock: %w", err)
	}
	defer stockConn.Close()
	stock := rpcwire.NewStockClient(stockConn)

	paymentConn, err := grpc.NewClient(cfg.Peers.Payment, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dialing payment: %w", err)
	}
	defer paymentConn.Close()
	payment := rpcwire.NewPaymentClient(paymentConn)

	httpClient := &http.Client{Timeout: 5 * time.Second}

	// Step 1: PrepareSnapshot.
	logger.Info("requesting prepare_rollback on order")
	if err := postOrder(ctx, httpClient, cfg.Peers.Order, "/prepare_rollback"); err != nil {
		return fmt.Errorf("order prepare_rollback: %w", err)
	}

	stockReady, err := stock.PrepareSnapshot(ctx, &rpcwire.Empty{})
	if err != nil {
		return fmt.Errorf("stock PrepareSnapshot: %w", err)
	}
	paymentReady, err := payment.PrepareSnapshot(ctx, &rpcwire.Empty{})
	if err != nil {
		return fmt.Errorf("payment PrepareSnapshot: %w", err)
	}
	if !stockReady.Success || !paymentReady.Success {
		fmt.Println(red("snapshot_lock already held elsewhere; aborting this pass"))
		logger.WithFields(log.Fields{"stock": stockReady.Success, "payment": paymentReady.Success}).
			Warn("snapshot_lock already held elsewhere; aborting this pass")
		if stockReady.Success {
			if _, err := stock.Continue(ctx, &rpcwire.Empty{}); err != nil {
				return fmt.Errorf("stock Continue: %w", err)
			}
		}
		if paymentReady.Success {
			if _, err := payment.Continue(ctx, &rpcwire.Empty{}); err != nil {
				return fmt.Errorf("payment Continue: %w", err)
			}
		}
		return postOrder(ctx, httpClient, cfg.Peers.Order, "/continue")
	}

	// Step 2: CheckSnapshotReady, polled at 100ms.
	logger.Info("waiting for consumers to quiesce")
	if err := pollReady(ctx, func(ctx context.Context) (bool, error) {
		sOK, err := stock.CheckSnapshotReady(ctx, &rpcwire.Empty{})
		if err != nil {
			return false, err
		}
		pOK, err := payment.CheckSnapshotReady(ctx, &rpcwire.Empty{})
		if err != nil {
			return false, err
		}
		return sOK.Success && pOK.Success, nil
	}); err != nil {
		return fmt.Errorf("waiting for quiescence: %w", err)
	}

	// Step 3: Snapshot.
	logger.Info("taking snapshots")
	if _, err := stock.Snapshot(ctx, &rpcwire.Empty{}); err != nil {
		return fmt.Errorf("stock Snapshot: %w", err)
	}
	if _, err := payment.Snapshot(ctx, &rpcwire.Empty{}); err != nil {
		return fmt.Errorf("payment Snapshot: %w", err)
	}
	if err := postOrder(ctx, httpClient, cfg.Peers.Order, "/snapshot"); err != nil {
		return fmt.Errorf("order Snapshot: %w", err)
	}

	// Step 4: Continue.
	logger.Info("releasing snapshot_lock")
	if _, err := stock.Continue(ctx, &rpcwire.Empty{}); err != nil {
		return fmt.Errorf("stock Continue: %w", err)
	}
	if _, err := payment.Continue(ctx, &rpcwire.Empty{}); err != nil {
		return fmt.Errorf("payment Continue: %w", err)
	}
	if err := postOrder(ctx, httpClient, cfg.Peers.Order, "/continue"); err != nil {
		return fmt.Errorf("order Continue: %w", err)
	}

	fmt.Println(green("snapshot pass complete"))
	logger.Info("snapshot pass complete")
	return nil
}

func postOrder(ctx context.Context, client *http.Client, baseURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("order %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

func pollReady(ctx context.Context, check func(context.Context) (bool, error)) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		ready, err := check(ctx)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func main() {
	var opts args
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := run(ctx, opts); err != nil {
		log.WithError(err).Fatal("snapshot pass failed")
	}
}
