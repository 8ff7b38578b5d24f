package agent

import (
	"encoding/json"
	"math"
	"net"
	"testing"

	"github.com/nstehr/ordnance/ipc"
	"github.com/nstehr/ordnance/metrics"
	"github.com/nstehr/ordnance/optimizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// shipKiller is the 12 MSP anti-ship scenario as a client would send it.
const shipKiller = `{
  "id": "sk-1",
  "technology": {
    "damage_per_msp": 6,
    "agility_per_msp": 48,
    "ep_per_hs": 6.4,
    "fuel_consumption": 0.3,
    "min_power_factor": 0.25,
    "max_power_factor": 3
  },
  "constraints": {
    "intended_target_speed": 5000,
    "size": 12,
    "min_excess_size": 1,
    "min_cth": 30,
    "min_speed": 10000,
    "max_speed": 20000,
    "min_range": 100000000,
    "min_damage": 13,
    "max_damage": 14
  },
  "top": 3
}`

func newAgent(t *testing.T) (*Agent, *metrics.Collector) {
	t.Helper()
	m, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	return New(nil, m), m
}

func search(t *testing.T, a *Agent, body string) ipc.Envelope {
	t.Helper()
	reply, err := a.HandleSearch(ipc.Envelope{Type: ipc.TypeSearch, Data: json.RawMessage(body)})
	if err != nil {
		t.Fatalf("HandleSearch: %v", err)
	}
	if reply == nil {
		t.Fatal("HandleSearch returned no reply")
	}
	return *reply
}

func TestHandleHello(t *testing.T) {
	a, _ := newAgent(t)
	reply, err := a.HandleHello(ipc.Envelope{Type: ipc.TypeHello, Data: json.RawMessage(`{"client":"fleet-office","version":"2"}`)})
	if err != nil {
		t.Fatalf("HandleHello: %v", err)
	}
	if reply.Type != ipc.TypeAck {
		t.Errorf("reply type = %q, want %q", reply.Type, ipc.TypeAck)
	}
	if a.Client != "fleet-office" {
		t.Errorf("client = %q, want fleet-office", a.Client)
	}
}

func TestHandleSearch(t *testing.T) {
	a, m := newAgent(t)
	reply := search(t, a, shipKiller)
	if reply.Type != ipc.TypeSearchResult {
		t.Fatalf("reply type = %q (%s), want %q", reply.Type, reply.Data, ipc.TypeSearchResult)
	}

	var res ipc.SearchResult
	if err := json.Unmarshal(reply.Data, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if res.ID != "sk-1" {
		t.Errorf("id = %q, want sk-1", res.ID)
	}
	if len(res.Designs) != 3 {
		t.Fatalf("got %d designs, want 3", len(res.Designs))
	}
	if res.Total != res.Stats.Accepted || res.Total < len(res.Designs) {
		t.Errorf("total = %d, stats = %+v", res.Total, res.Stats)
	}
	if res.Counts.Payload != 2 {
		t.Errorf("payload axis = %d, want 2", res.Counts.Payload)
	}
	best := res.Designs[0]
	if best.Damage != 14 || math.Abs(best.Cth-45.8) > 1e-6 {
		t.Errorf("best design = damage %d, cth %v; want 14, 45.8", best.Damage, best.Cth)
	}
	if best.Engines != 1 {
		t.Errorf("engines = %d, want the default single engine", best.Engines)
	}

	if got := testutil.ToFloat64(m.Searches.WithLabelValues(string(metrics.OutcomeOK))); got != 1 {
		t.Errorf("ok searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Designs.WithLabelValues("accepted")); got != float64(res.Total) {
		t.Errorf("accepted designs = %v, want %d", got, res.Total)
	}
}

func TestHandleSearchEmpty(t *testing.T) {
	a, m := newAgent(t)
	body := `{"technology":{"damage_per_msp":6,"agility_per_msp":48,"ep_per_hs":6.4,"fuel_consumption":0.3},
	          "constraints":{"intended_target_speed":5000,"size":12,"min_excess_size":1,"min_damage":67}}`
	reply := search(t, a, body)
	var res ipc.SearchResult
	if err := json.Unmarshal(reply.Data, &res); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if reply.Type != ipc.TypeSearchResult || res.Total != 0 || len(res.Designs) != 0 {
		t.Fatalf("reply = %s %s, want an empty result", reply.Type, reply.Data)
	}
	if got := testutil.ToFloat64(m.Searches.WithLabelValues(string(metrics.OutcomeEmpty))); got != 1 {
		t.Errorf("empty searches = %v, want 1", got)
	}
}

func TestHandleSearchErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid size", `{"id":"e","constraints":{"size":0}}`},
		{"unknown model", `{"id":"e","constraints":{"size":6},"model":{"size_curve":"cubic"}}`},
		{"bad filter", `{"id":"e","constraints":{"size":6},"where":"Damage() >"}`},
		{"bad key", `{"id":"e","constraints":{"size":6},"keys":["Armor()"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, m := newAgent(t)
			reply := search(t, a, tt.body)
			if reply.Type != ipc.TypeError {
				t.Fatalf("reply type = %q, want %q", reply.Type, ipc.TypeError)
			}
			var msg ipc.ErrorMessage
			if err := json.Unmarshal(reply.Data, &msg); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if msg.ID != "e" || msg.Message == "" || msg.Invariant != nil {
				t.Errorf("error message = %+v", msg)
			}
			if got := testutil.ToFloat64(m.Searches.WithLabelValues(string(metrics.OutcomeError))); got != 1 {
				t.Errorf("error searches = %v, want 1", got)
			}
		})
	}
}

func TestHandleSearchMalformed(t *testing.T) {
	a, _ := newAgent(t)
	if _, err := a.HandleSearch(ipc.Envelope{Type: ipc.TypeSearch, Data: json.RawMessage(`{"constraints":`)}); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestErrorReplyCarriesInvariant(t *testing.T) {
	iv := &optimizer.InvariantViolation{Field: "speed", Observed: 1100, Relation: ">=", Bound: 10000}
	reply, err := errorReply("x", iv)
	if err != nil {
		t.Fatalf("errorReply: %v", err)
	}
	var msg ipc.ErrorMessage
	if err := json.Unmarshal(reply.Data, &msg); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	want := ipc.InvariantDetail{Field: "speed", Observed: 1100, Relation: ">=", Bound: 10000}
	if msg.Invariant == nil || *msg.Invariant != want {
		t.Errorf("invariant = %+v, want %+v", msg.Invariant, want)
	}
	if msg.Message != iv.Error() {
		t.Errorf("message = %q, want %q", msg.Message, iv.Error())
	}
}

func TestServe(t *testing.T) {
	m, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		Serve(server, m)
		close(done)
	}()
	defer func() {
		client.Close()
		<-done
	}()

	send := func(msgType, body string) ipc.Envelope {
		if err := ipc.WriteEnvelope(client, ipc.Envelope{Type: msgType, Data: json.RawMessage(body)}); err != nil {
			t.Fatalf("WriteEnvelope: %v", err)
		}
		reply, err := ipc.ReadEnvelope(client)
		if err != nil {
			t.Fatalf("ReadEnvelope: %v", err)
		}
		return reply
	}

	if reply := send(ipc.TypeHello, `{"client":"pipe"}`); reply.Type != ipc.TypeAck {
		t.Fatalf("hello reply = %q, want %q", reply.Type, ipc.TypeAck)
	}
	if reply := send(ipc.TypeSearch, `{"constraints":"big"}`); reply.Type != ipc.TypeError {
		t.Fatalf("malformed search reply = %q, want %q", reply.Type, ipc.TypeError)
	}
	if reply := send(ipc.TypeSearch, shipKiller); reply.Type != ipc.TypeSearchResult {
		t.Fatalf("search reply = %q, want %q", reply.Type, ipc.TypeSearchResult)
	}
}
