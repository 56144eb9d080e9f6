package control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// Default dispatcher settings.
const (
	// DefaultTimeout bounds each delivery request.
	DefaultTimeout = 2 * time.Second
	// DefaultQueueSize is the capacity of the hand-off queue between the
	// detection loop and the delivery worker.
	DefaultQueueSize = 16
)

// Status classifies the outcome of one delivery attempt.
type Status string

const (
	// StatusOK means the endpoint acknowledged with a 2xx response.
	StatusOK Status = "ok"
	// StatusConnectionError means the endpoint was unreachable.
	StatusConnectionError Status = "connection_error"
	// StatusTimeout means no response arrived within the configured bound.
	StatusTimeout Status = "timeout"
	// StatusRejected means the endpoint answered with a non-2xx response.
	StatusRejected Status = "rejected"
)

// Reporter receives the outcome of every delivery attempt. Implementations
// must not block for long; they run on the delivery worker.
type Reporter interface {
	ReportDispatch(ev Event, status Status, detail string)
}

// payload is the wire format sent to the device for gesture commands.
type payload struct {
	Command   string  `json:"command"`
	Gesture   string  `json:"gesture"`
	Timestamp float64 `json:"timestamp"`
}

// Dispatcher delivers admitted command events to a single configured
// endpoint. Delivery runs on a dedicated worker goroutine fed through a
// bounded queue, so the detection loop never waits on the network.
// Delivery failures are classified and reported, never retried and never
// surfaced as fatal.
type Dispatcher struct {
	url      string
	client   *http.Client
	queue    chan Event
	reporter Reporter

	enabled bool
	mu      sync.RWMutex

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewDispatcher creates a Dispatcher for the given endpoint URL. A timeout
// or queue size of zero selects the default.
func NewDispatcher(url string, timeout time.Duration, queueSize int) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Dispatcher{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		queue:   make(chan Event, queueSize),
		enabled: true,
	}
}

// SetReporter sets the observer notified of every delivery outcome.
func (d *Dispatcher) SetReporter(r Reporter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reporter = r
}

// SetEnabled gates whether new events are accepted by Offer. Disabling
// never cancels a request already in flight; it only suppresses future
// submissions.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = enabled
}

// IsEnabled returns whether new events are currently accepted.
func (d *Dispatcher) IsEnabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled
}

// URL returns the configured endpoint address.
func (d *Dispatcher) URL() string {
	return d.url
}

// Start launches the delivery worker. Calling Start on a running
// dispatcher is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopCh != nil {
		return
	}

	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	go d.run(d.stopCh, d.doneCh)
}

// Stop shuts down the delivery worker and waits for it to finish the
// request it may be performing. Queued events that were not yet picked
// up are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	stopCh := d.stopCh
	doneCh := d.doneCh
	d.stopCh = nil
	d.doneCh = nil
	d.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh
}

// Offer submits an event for asynchronous delivery. It never blocks: it
// returns false immediately when the dispatcher is disabled or the queue
// is full. A dropped event is final; there is no retry.
func (d *Dispatcher) Offer(ev Event) bool {
	if !d.IsEnabled() {
		return false
	}

	select {
	case d.queue <- ev:
		return true
	default:
		log.Printf("Dispatch queue full, dropping %q (gesture: %s)", ev.Command, ev.Gesture)
		return false
	}
}

// run drains the queue and delivers events until stopped.
func (d *Dispatcher) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case ev := <-d.queue:
			status, detail := d.deliver(ev)
			d.report(ev, status, detail)
		}
	}
}

// deliver performs one POST to the endpoint and classifies the outcome.
func (d *Dispatcher) deliver(ev Event) (Status, string) {
	body, err := json.Marshal(payload{
		Command:   ev.Command,
		Gesture:   string(ev.Gesture),
		Timestamp: ev.Timestamp(),
	})
	if err != nil {
		return StatusConnectionError, fmt.Sprintf("marshal payload: %v", err)
	}

	resp, err := d.client.Post(d.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return classifyRequestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		return StatusOK, ""
	}
	return StatusRejected, fmt.Sprintf("status %d", resp.StatusCode)
}

// report logs the outcome and forwards it to the reporter if one is set.
func (d *Dispatcher) report(ev Event, status Status, detail string) {
	switch status {
	case StatusOK:
		log.Printf("Sent %q (gesture: %s)", ev.Command, ev.Gesture)
	default:
		log.Printf("Dispatch of %q failed: %s %s", ev.Command, status, detail)
	}

	d.mu.RLock()
	reporter := d.reporter
	d.mu.RUnlock()

	if reporter != nil {
		reporter.ReportDispatch(ev, status, detail)
	}
}

// Probe tests whether the endpoint is reachable, independent of the
// gesture path. Any HTTP response, 2xx or not, counts as reachable.
func (d *Dispatcher) Probe(ctx context.Context) error {
	body := []byte(`{"command":"test"}`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("endpoint %s unreachable: %w", d.url, err)
	}
	resp.Body.Close()

	return nil
}

// SendCommand delivers a custom command synchronously, outside the
// debounced gesture path. The payload carries only the command field.
func (d *Dispatcher) SendCommand(ctx context.Context, command string) error {
	body, err := json.Marshal(map[string]string{"command": command})
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("endpoint rejected command: status %d", resp.StatusCode)
	}
	return nil
}

// classifyRequestError separates timeouts from connection failures.
func classifyRequestError(err error) (Status, string) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout, err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout, err.Error()
	}
	return StatusConnectionError, err.Error()
}
