package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"

	// LastCheckedNever is shown before the first check completes.
	LastCheckedNever = "Never"

	LastCheckedLayout = "2006-01-02 15:04:05 UTC"
)

// ServiceEntry is a single row of a ServiceStatus.
type ServiceEntry struct {
	Name    string
	Status  string
	Details string
}

// ServiceStatus maps service names to their (status, details) pair while
// keeping insertion order. On the wire it is a JSON object whose values are
// two-element arrays.
type ServiceStatus []ServiceEntry

// Set inserts or replaces the entry for name. A replaced entry keeps its
// original position.
func (s *ServiceStatus) Set(name, status, details string) {
	for i := range *s {
		if (*s)[i].Name == name {
			(*s)[i].Status = status
			(*s)[i].Details = details
			return
		}
	}
	*s = append(*s, ServiceEntry{Name: name, Status: status, Details: details})
}

// Get returns the entry for name.
func (s ServiceStatus) Get(name string) (ServiceEntry, bool) {
	for _, e := range s {
		if e.Name == name {
			return e, true
		}
	}
	return ServiceEntry{}, false
}

// AllOK reports whether every service has status OK.
func (s ServiceStatus) AllOK() bool {
	for _, e := range s {
		if e.Status != StatusOK {
			return false
		}
	}
	return true
}

func (s ServiceStatus) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal([2]string{e.Status, e.Details})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *ServiceStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("services: expected object, got %v", tok)
	}

	out := ServiceStatus{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("services: expected string key, got %v", tok)
		}

		var pair []string
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("services[%q]: %w", name, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("services[%q]: expected [status, details], got %d elements", name, len(pair))
		}
		out.Set(name, pair[0], pair[1])
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Services    ServiceStatus `json:"services"`
	LastChecked string        `json:"last_checked"`
	Timestamp   string        `json:"timestamp"`
}

// HealthCheckResponse is the body of GET /healthCheck.
type HealthCheckResponse struct {
	Status   string        `json:"status"`
	Services ServiceStatus `json:"services"`
	UpSince  time.Time     `json:"up_since"`
	Uptime   string        `json:"uptime"`
}
