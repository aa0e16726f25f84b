package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	ObserveRemoteCall("neo_rpc", "getblockcount", time.Now(), nil)
	ObserveRemoteCall("neo_rpc", "getblockcount", time.Now(), errors.New("down"))
	IncTransfer("native")
	IncGasClaim("confirmed")
	IncTokenLookup("ok")
	ObserveConfirmation(20 * time.Second)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `neo_wallet_remote_calls_total{method="getblockcount",outcome="error",target="neo_rpc"} 1`)
	assert.Contains(t, body, `neo_wallet_transfers_sent_total{kind="native"}`)
	assert.Contains(t, body, "neo_wallet_confirmation_wait_seconds_bucket")
}
