package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestChatRequests_CountsByLabels(t *testing.T) {
	before := testutil.ToFloat64(ChatRequests.WithLabelValues("POST", "200"))
	ChatRequests.WithLabelValues("POST", "200").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(ChatRequests.WithLabelValues("POST", "200")))
}

func TestVendorCallDuration_Registered(t *testing.T) {
	VendorCallDuration.WithLabelValues("groq").Observe(0.3)
	require.Equal(t, 1, testutil.CollectAndCount(VendorCallDuration))
}
