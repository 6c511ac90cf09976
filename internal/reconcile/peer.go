package reconcile

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cedbanana/dds25-2/internal/rpcwire"
)

// StockPeer adapts rpcwire.StockClient to Peer, used by Payment's
// reconciler to vibe-check against Stock.
type StockPeer struct {
	Client rpcwire.StockClient
	Log    *logrus.Entry
}

func (p StockPeer) VibeCheck(ctx context.Context, tid string, localSuccess bool) (peerSuccess, peerStale bool, err error) {
	resp, err := p.Client.VibeCheckTransactionStatus(ctx, &rpcwire.VibeCheckRequest{Tid: tid, Success: localSuccess})
	if err != nil {
		if p.Log != nil {
			p.Log.WithError(err).WithField("tid", tid).WithField("contested", grpcContested(err)).
				Debug("stock vibe-check failed")
		}
		return false, false, err
	}
	return resp.Success, resp.Stale, nil
}

// PaymentPeer adapts rpcwire.PaymentClient to Peer, used by Stock's
// reconciler to vibe-check against Payment.
type PaymentPeer struct {
	Client rpcwire.PaymentClient
	Log    *logrus.Entry
}

func (p PaymentPeer) VibeCheck(ctx context.Context, tid string, localSuccess bool) (peerSuccess, peerStale bool, err error) {
	resp, err := p.Client.VibeCheckTransactionStatus(ctx, &rpcwire.VibeCheckRequest{Tid: tid, Success: localSuccess})
	if err != nil {
		if p.Log != nil {
			p.Log.WithError(err).WithField("tid", tid).WithField("contested", grpcContested(err)).
				Debug("payment vibe-check failed")
		}
		return false, false, err
	}
	return resp.Success, resp.Stale, nil
}
