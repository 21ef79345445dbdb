package converter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/datacoin-network/datacoin/business/core/converter"
	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
	"github.com/datacoin-network/datacoin/foundation/ledger/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func testChain(t *testing.T) *chain.Chain {
	t.Helper()

	gen := genesis.Genesis{
		Date:           time.Now().UTC(),
		Difficulty:     1,
		MiningReward:   10,
		ConversionRate: 0.001,
		SharePrice:     1000,
		Shares:         map[string]int{"Google": 0},
	}

	c, err := chain.New(chain.Config{Genesis: gen})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a chain: %v", failed, err)
	}

	return c
}

func Test_Sources(t *testing.T) {
	t.Log("Given the need to manage data sources.")
	{
		cnv := converter.New(testChain(t), nil)

		src := converter.Source{ID: "posts", Type: converter.SourceTypeAPI, URL: "http://localhost/posts"}
		if err := cnv.AddSource(src); err != nil {
			t.Fatalf("\t%s\tShould be able to add a source: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to add a source.", success)

		if err := cnv.AddSource(src); err == nil {
			t.Fatalf("\t%s\tShould reject a duplicate source id.", failed)
		}
		t.Logf("\t%s\tShould reject a duplicate source id.", success)

		if err := cnv.AddSource(converter.Source{ID: "x", Type: "torrent", URL: "http://localhost"}); err == nil {
			t.Fatalf("\t%s\tShould reject an unknown source type.", failed)
		}
		t.Logf("\t%s\tShould reject an unknown source type.", success)

		if err := cnv.AddSource(converter.Source{Type: converter.SourceTypeWeb}); err == nil {
			t.Fatalf("\t%s\tShould reject a source missing id or url.", failed)
		}
		t.Logf("\t%s\tShould reject a source missing id or url.", success)

		sources := cnv.QuerySources()
		if len(sources) != 1 || sources[0].Weight != 1 {
			t.Fatalf("\t%s\tShould list one source with the default weight.", failed)
		}
		t.Logf("\t%s\tShould list one source with the default weight.", success)
	}
}

func Test_Collect(t *testing.T) {
	t.Log("Given the need to collect data and mint currency for it.")
	{
		// Serve a JSON array so the api source type counts records.
		payload := "[" + strings.Repeat(`{"x":"`+strings.Repeat("d", 1024)+`"},`, 199) + `{"x":"end"}]`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(payload))
		}))
		defer srv.Close()

		ch := testChain(t)
		cnv := converter.New(ch, nil)

		if err := cnv.AddSource(converter.Source{ID: "posts", Type: converter.SourceTypeAPI, URL: srv.URL, Weight: 1.5}); err != nil {
			t.Fatalf("\t%s\tShould be able to add the source: %v", failed, err)
		}

		tx, err := cnv.Collect(context.Background(), "posts", "pavel")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to collect from the source: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to collect from the source.", success)

		expSize := float64(len(payload)) / (1024 * 1024)
		if tx.Kind != chain.TxTypeDataConversion || tx.DataValue != expSize {
			t.Fatalf("\t%s\tShould queue a conversion for the collected size: got %v", failed, tx.DataValue)
		}
		t.Logf("\t%s\tShould queue a conversion for the collected size.", success)

		if tx.Amount != expSize*0.001 {
			t.Fatalf("\t%s\tShould mint at the chain's flat rate: got %v", failed, tx.Amount)
		}
		t.Logf("\t%s\tShould mint at the chain's flat rate.", success)

		if _, err := ch.MineNewBlock(context.Background(), "miner1"); err != nil {
			t.Fatalf("\t%s\tShould be able to mine the conversion: %v", failed, err)
		}
		if got := ch.QueryBalance("pavel"); got != expSize*0.001 {
			t.Fatalf("\t%s\tShould credit the recipient once mined: got %v", failed, got)
		}
		t.Logf("\t%s\tShould credit the recipient once mined.", success)

		stats := cnv.QueryStats()
		if stats.TotalConversions != 1 || stats.TotalDataCollected != expSize {
			t.Fatalf("\t%s\tShould account for the collection: %+v", failed, stats)
		}
		if stats.TotalCurrencyGenerated <= 0 {
			t.Fatalf("\t%s\tShould report a positive engine value.", failed)
		}
		t.Logf("\t%s\tShould account for the collection.", success)

		if _, err := cnv.Collect(context.Background(), "missing", "pavel"); err == nil {
			t.Fatalf("\t%s\tShould reject an unknown source.", failed)
		}
		t.Logf("\t%s\tShould reject an unknown source.", success)
	}
}

func Test_CollectFailures(t *testing.T) {
	t.Log("Given the need to survive sources that misbehave.")
	{
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		cnv := converter.New(testChain(t), nil)
		if err := cnv.AddSource(converter.Source{ID: "broken", Type: converter.SourceTypeWeb, URL: srv.URL}); err != nil {
			t.Fatalf("\t%s\tShould be able to add the source: %v", failed, err)
		}

		if _, err := cnv.Collect(context.Background(), "broken", "pavel"); err == nil {
			t.Fatalf("\t%s\tShould surface a failing source.", failed)
		}
		t.Logf("\t%s\tShould surface a failing source.", success)

		if stats := cnv.QueryStats(); stats.TotalConversions != 0 {
			t.Fatalf("\t%s\tShould not account for a failed collection.", failed)
		}
		t.Logf("\t%s\tShould not account for a failed collection.", success)
	}
}

func Test_AutoConversion(t *testing.T) {
	t.Log("Given the need to collect on a schedule.")
	{
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(strings.Repeat("data", 1024)))
		}))
		defer srv.Close()

		ch := testChain(t)
		cnv := converter.New(ch, nil)
		if err := cnv.AddSource(converter.Source{ID: "feed", Type: converter.SourceTypeWeb, URL: srv.URL}); err != nil {
			t.Fatalf("\t%s\tShould be able to add the source: %v", failed, err)
		}

		if err := cnv.StartAuto("pavel", time.Minute); err != nil {
			t.Fatalf("\t%s\tShould be able to start the loop: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to start the loop.", success)

		if err := cnv.StartAuto("pavel", time.Minute); err == nil {
			t.Fatalf("\t%s\tShould reject a second loop.", failed)
		}
		t.Logf("\t%s\tShould reject a second loop.", success)

		deadline := time.Now().Add(10 * time.Second)
		for cnv.QueryStats().TotalConversions < 1 {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould collect at least once before the deadline.", failed)
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Logf("\t%s\tShould collect at least once before the deadline.", success)

		cnv.StopAuto()
		if cnv.QueryStats().AutoRunning {
			t.Fatalf("\t%s\tShould report the loop stopped.", failed)
		}
		t.Logf("\t%s\tShould report the loop stopped.", success)

		if ch.QueryPendingLength() == 0 {
			t.Fatalf("\t%s\tShould have queued conversions on the chain.", failed)
		}
		t.Logf("\t%s\tShould have queued conversions on the chain.", success)
	}
}
