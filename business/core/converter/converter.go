// Package converter implements the data engine that collects internet
// data and turns it into chain currency. The engine keeps its own
// bookkeeping of what each source earned; the coins actually minted
// always come from the chain's flat conversion rate.
package converter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/datacoin-network/datacoin/foundation/ledger/chain"
)

// Set of source types the engine collects from.
const (
	SourceTypeWeb    = "web"
	SourceTypeAPI    = "api"
	SourceTypeRSS    = "rss"
	SourceTypeSocial = "social"
)

// collectorAgent identifies the engine to the sources it collects from.
const collectorAgent = "DataCoin-Collector/1.0"

// maxCollectBytes caps how much of a response body counts as collected
// data. A runaway source should not take the node down with it.
const maxCollectBytes = 64 << 20

// sourcePause is the breather between two sources inside one automatic
// collection cycle.
const sourcePause = 10 * time.Second

// =============================================================================

// Source represents a registered origin of internet data.
type Source struct {
	ID                string  `json:"source_id"`
	Type              string  `json:"source_type"`
	URL               string  `json:"url"`
	Weight            float64 `json:"weight"`
	LastAccessed      uint64  `json:"last_accessed"`
	DataCollected     float64 `json:"data_collected"`
	CurrencyGenerated float64 `json:"currency_generated"`
}

// Stats summarizes the engine's activity.
type Stats struct {
	TotalSources           int            `json:"total_sources"`
	TotalDataCollected     float64        `json:"total_data_collected_mb"`
	TotalCurrencyGenerated float64        `json:"total_currency_generated"`
	TotalConversions       int            `json:"total_conversions"`
	QualityDistribution    map[string]int `json:"quality_distribution"`
	AutoRunning            bool           `json:"is_auto_running"`
}

// Converter manages the data sources and the collection workflow.
type Converter struct {
	chain     *chain.Chain
	client    *http.Client
	evHandler chain.EventHandler

	mu          sync.RWMutex
	sources     map[string]Source
	conversions int
	quality     map[string]int
	running     bool
	shut        chan struct{}
	wg          sync.WaitGroup
}

// New constructs a converter minting against the provided chain.
func New(ch *chain.Chain, evHandler chain.EventHandler) *Converter {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	return &Converter{
		chain:     ch,
		client:    &http.Client{Timeout: 10 * time.Second},
		evHandler: ev,
		sources:   make(map[string]Source),
		quality:   make(map[string]int),
	}
}

// =============================================================================

// AddSource registers a new origin of data. Identifiers are unique and
// the type must be one the engine knows how to collect. A zero weight
// defaults to 1.
func (c *Converter) AddSource(source Source) error {
	if source.ID == "" || source.URL == "" {
		return errors.New("source id and url are required")
	}

	switch source.Type {
	case SourceTypeWeb, SourceTypeAPI, SourceTypeRSS, SourceTypeSocial:
	default:
		return fmt.Errorf("unknown source type %q", source.Type)
	}

	if source.Weight == 0 {
		source.Weight = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.sources[source.ID]; exists {
		return fmt.Errorf("source %q already exists", source.ID)
	}
	c.sources[source.ID] = source

	return nil
}

// QuerySources returns a copy of the registered sources.
func (c *Converter) QuerySources() []Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sources := make([]Source, 0, len(c.sources))
	for _, source := range c.sources {
		sources = append(sources, source)
	}

	return sources
}

// Collect pulls data from the specified source, queues the conversion
// transaction for the recipient, and updates the source's bookkeeping.
func (c *Converter) Collect(ctx context.Context, sourceID string, recipient string) (chain.Tx, error) {
	c.mu.RLock()
	source, exists := c.sources[sourceID]
	c.mu.RUnlock()

	if !exists {
		return chain.Tx{}, fmt.Errorf("source %q not found", sourceID)
	}

	sizeMB, m, err := c.fetch(ctx, source)
	if err != nil {
		return chain.Tx{}, fmt.Errorf("collect %q: %w", sourceID, err)
	}
	if sizeMB == 0 {
		return chain.Tx{}, fmt.Errorf("source %q returned no data", sourceID)
	}

	now := time.Now().UTC()
	quality := dataQuality(m)
	value := currencyValue(sizeMB, source, m, now)

	tx, ok := c.chain.ConvertData(sizeMB, recipient)
	if !ok {
		return chain.Tx{}, fmt.Errorf("conversion rejected for source %q", sourceID)
	}

	c.mu.Lock()
	source = c.sources[sourceID]
	source.LastAccessed = uint64(now.Unix())
	source.DataCollected += sizeMB
	source.CurrencyGenerated += value
	c.sources[sourceID] = source
	c.conversions++
	c.quality[quality]++
	c.mu.Unlock()

	c.evHandler("converter: collect: source[%s] size[%.6fMB] quality[%s] value[%.6f]: queued tx[%s]",
		sourceID, sizeMB, quality, value, tx.ID)

	return tx, nil
}

// QueryStats aggregates the engine's bookkeeping in one consistent read.
func (c *Converter) QueryStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{
		TotalSources:        len(c.sources),
		TotalConversions:    c.conversions,
		QualityDistribution: make(map[string]int, len(c.quality)),
		AutoRunning:         c.running,
	}

	for _, source := range c.sources {
		stats.TotalDataCollected += source.DataCollected
		stats.TotalCurrencyGenerated += source.CurrencyGenerated
	}
	for quality, count := range c.quality {
		stats.QualityDistribution[quality] = count
	}

	return stats
}

// =============================================================================

// StartAuto begins collecting from every source on an interval, minting
// to the recipient. Only one automatic loop runs at a time.
func (c *Converter) StartAuto(recipient string, interval time.Duration) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("auto conversion already running")
	}
	c.running = true
	c.shut = make(chan struct{})
	shut := c.shut
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()

		c.evHandler("converter: auto: G started: interval[%v]", interval)
		defer c.evHandler("converter: auto: G completed")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			c.runCycle(shut, recipient)

			select {
			case <-ticker.C:
			case <-shut:
				return
			}
		}
	}()

	return nil
}

// StopAuto stops the automatic collection loop and waits for it.
func (c *Converter) StopAuto() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	shut := c.shut
	c.mu.Unlock()

	close(shut)
	c.wg.Wait()

	c.evHandler("converter: auto: stopped")
}

// runCycle collects from every registered source once, pausing between
// sources so the engine is a polite client.
func (c *Converter) runCycle(shut chan struct{}, recipient string) {
	c.mu.RLock()
	ids := make([]string, 0, len(c.sources))
	for id := range c.sources {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	for _, id := range ids {
		if _, err := c.Collect(context.Background(), id, recipient); err != nil {
			c.evHandler("converter: auto: %s", err)
		}

		select {
		case <-time.After(sourcePause):
		case <-shut:
			return
		}
	}
}

// fetch performs the HTTP collection for a source and measures what
// came back.
func (c *Converter) fetch(ctx context.Context, source Source) (float64, metrics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return 0, metrics{}, err
	}
	req.Header.Set("User-Agent", collectorAgent)

	t := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, metrics{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, metrics{}, fmt.Errorf("status %d from %s", resp.StatusCode, source.URL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCollectBytes))
	if err != nil {
		return 0, metrics{}, err
	}

	m := metrics{
		ContentSizeMB: float64(len(body)) / (1024 * 1024),
		StatusCode:    resp.StatusCode,
		ResponseTime:  time.Since(t),
	}

	// API payloads report how many records they carried.
	if source.Type == SourceTypeAPI {
		var records []json.RawMessage
		switch err := json.Unmarshal(body, &records); err {
		case nil:
			m.DataPoints = len(records)
		default:
			m.DataPoints = 1
		}
	}

	return m.ContentSizeMB, m, nil
}
