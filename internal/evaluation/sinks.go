// ABOUTME: Evaluation sinks: HTTP evaluation service, NATS subject, fan-out and no-op
// ABOUTME: A sink delivers one record per Send and owns its connection until Close
package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nats-io/nats.go"
)

// Sink delivers evaluation records
type Sink interface {
	Name() string
	Send(ctx context.Context, rec Record) error
	Close() error
}

// HTTPSink posts records to a project-log insert endpoint
type HTTPSink struct {
	baseURL   string
	apiKey    string
	projectID string
	client    *http.Client
}

// NewHTTPSink creates a sink for {baseURL}/v1/project_logs/{projectID}/insert
func NewHTTPSink(baseURL, apiKey, projectID string, client *http.Client) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		projectID: projectID,
		client:    client,
	}
}

func (s *HTTPSink) Name() string { return "http" }

func (s *HTTPSink) url() string {
	return fmt.Sprintf("%s/v1/project_logs/%s/insert", s.baseURL, s.projectID)
}

// Send posts {"events": [rec]}
func (s *HTTPSink) Send(ctx context.Context, rec Record) error {
	data, err := json.Marshal(map[string]any{"events": []Record{rec}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("POST %s: %d %s", s.url(), resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *HTTPSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// NATSSink publishes records as JSON on a subject
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to url
func NewNATSSink(url, subject string) (*NATSSink, error) {
	nc, err := nats.Connect(url, nats.Name("plant-texts-evaluation"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATSSink{nc: nc, subject: subject}, nil
}

func (s *NATSSink) Name() string { return "nats" }

// Send publishes rec and waits for the server to acknowledge the flush
func (s *NATSSink) Send(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.nc.Publish(s.subject, data); err != nil {
		return err
	}
	return s.nc.FlushWithContext(ctx)
}

func (s *NATSSink) Close() error {
	s.nc.Close()
	return nil
}

// MultiSink fans a record out to every sink
type MultiSink []Sink

func (m MultiSink) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Send delivers to all sinks and joins their errors
func (m MultiSink) Send(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopSink discards records
type NopSink struct{}

func (NopSink) Name() string { return "nop" }

func (NopSink) Send(context.Context, Record) error { return nil }

func (NopSink) Close() error { return nil }
