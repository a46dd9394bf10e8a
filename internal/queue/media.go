package queue

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Service identifies which streaming service a job's media came from.
type Service string

const (
	ServiceCrunchyroll Service = "CR"
	ServiceADN         Service = "ADN"
)

// CREpisode is the media shape used by Crunchyroll jobs.
type CREpisode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	SeriesTitle string `json:"series_title"`
	Season      int    `json:"season"`
	Episode     string `json:"episode"`
	DurationMS  int64  `json:"duration_ms,omitempty"`
}

// ADNEpisode is the media shape used by ADN jobs.
type ADNEpisode struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ShowTitle string `json:"show_title"`
	Number    int    `json:"number"`
}

// Media is a tagged variant: exactly one of the per-service payloads is set,
// matching Service. Consumers switch on Service and must handle every case.
type Media struct {
	Service Service
	CR      *CREpisode
	ADN     *ADNEpisode
}

type mediaEnvelope struct {
	Service Service         `json:"service"`
	Data    json.RawMessage `json:"data"`
}

// Validate reports a Media whose tag and payload disagree.
func (m Media) Validate() error {
	switch m.Service {
	case ServiceCrunchyroll:
		if m.CR == nil || m.ADN != nil {
			return errors.New("media: service CR requires a CR payload only")
		}
		return nil
	case ServiceADN:
		if m.ADN == nil || m.CR != nil {
			return errors.New("media: service ADN requires an ADN payload only")
		}
		return nil
	case "":
		return errors.New("media: service is empty")
	default:
		return fmt.Errorf("media: unknown service %q", m.Service)
	}
}

// Title returns a display title for the episode.
func (m Media) Title() string {
	switch m.Service {
	case ServiceCrunchyroll:
		if m.CR == nil {
			return ""
		}
		if m.CR.SeriesTitle != "" {
			return m.CR.SeriesTitle + " - " + m.CR.Title
		}
		return m.CR.Title
	case ServiceADN:
		if m.ADN == nil {
			return ""
		}
		if m.ADN.ShowTitle != "" {
			return m.ADN.ShowTitle + " - " + m.ADN.Title
		}
		return m.ADN.Title
	default:
		return ""
	}
}

// MarshalJSON encodes the variant as {"service": ..., "data": ...}.
func (m Media) MarshalJSON() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var payload any
	switch m.Service {
	case ServiceCrunchyroll:
		payload = m.CR
	case ServiceADN:
		payload = m.ADN
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(mediaEnvelope{Service: m.Service, Data: data})
}

// UnmarshalJSON decodes the tagged envelope, rejecting unknown services.
func (m *Media) UnmarshalJSON(data []byte) error {
	var envelope mediaEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	switch envelope.Service {
	case ServiceCrunchyroll:
		var episode CREpisode
		if err := json.Unmarshal(envelope.Data, &episode); err != nil {
			return err
		}
		*m = Media{Service: ServiceCrunchyroll, CR: &episode}
		return nil
	case ServiceADN:
		var episode ADNEpisode
		if err := json.Unmarshal(envelope.Data, &episode); err != nil {
			return err
		}
		*m = Media{Service: ServiceADN, ADN: &episode}
		return nil
	default:
		return fmt.Errorf("media: unknown service %q", envelope.Service)
	}
}
