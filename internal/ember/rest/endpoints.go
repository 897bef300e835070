package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Home is one gateway entry from the homes list.
type Home struct {
	GatewayID string `json:"gatewayid"`
	Name      string `json:"name"`
}

// ZoneRecord is a zone as the zone-program endpoint reports it, before the
// directory turns it into a model object.
type ZoneRecord struct {
	ZoneID     json.Number   `json:"zoneid"`
	Name       string        `json:"name"`
	DeviceType int           `json:"deviceType"`
	MAC        string        `json:"mac"`
	ProductID  string        `json:"productId"`
	UID        string        `json:"uid"`
	Points     []PointRecord `json:"pointDataList"`
	Days       []DayRecord   `json:"deviceDays"`
}

// PointRecord is one sparse point entry. Values arrive as JSON strings or
// numbers depending on endpoint, hence json.Number.
type PointRecord struct {
	PointIndex int         `json:"pointIndex"`
	Value      json.Number `json:"value"`
}

// DayRecord is one weekday of a zone's program (dayType 0=Sunday..6=Saturday).
// Days carry up to three program slots.
type DayRecord struct {
	DayType int            `json:"dayType"`
	P1      *ProgramRecord `json:"p1"`
	P2      *ProgramRecord `json:"p2"`
	P3      *ProgramRecord `json:"p3"`
}

// ProgramRecord is one named program period. Interval-style programs carry
// StartTime and EndTime; instant-style programs carry only Time. Times are
// the compact integer encoding (173 = 17:30).
type ProgramRecord struct {
	Name        string `json:"name"`
	StartTime   *int   `json:"startTime"`
	EndTime     *int   `json:"endTime"`
	Time        *int   `json:"time"`
	Temperature int    `json:"temperature"`
}

// ZoneProgramResult is the zone-program endpoint payload: the zones of one
// gateway plus the server timestamp the snapshot was taken at.
type ZoneProgramResult struct {
	Zones     []ZoneRecord
	Timestamp int64
}

// ListHomes returns the homes (gateways) available for this account.
func (s *Session) ListHomes(ctx context.Context) ([]Home, error) {
	env, err := s.request(ctx, http.MethodGet, "homes/list", nil)
	if err != nil {
		return nil, err
	}

	var homes []Home
	if err := json.Unmarshal(env.Data, &homes); err != nil {
		return nil, fmt.Errorf("decoding homes list: %w", err)
	}
	return homes, nil
}

// HomeDetails returns the raw detail document for a gateway. The shape is
// vendor-defined and only consumed by diagnostics, so it stays untyped.
func (s *Session) HomeDetails(ctx context.Context, gatewayID string) (json.RawMessage, error) {
	env, err := s.request(ctx, http.MethodPost, "homes/detail", map[string]string{
		"gateWayId": gatewayID,
	})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ZoneProgram fetches the zone and program tree for a gateway.
func (s *Session) ZoneProgram(ctx context.Context, gatewayID string) (*ZoneProgramResult, error) {
	env, err := s.request(ctx, http.MethodPost, "homesVT/zoneProgram", map[string]string{
		"gateWayId": gatewayID,
	})
	if err != nil {
		return nil, err
	}

	var zones []ZoneRecord
	if err := json.Unmarshal(env.Data, &zones); err != nil {
		return nil, fmt.Errorf("decoding zone program: %w", err)
	}
	if env.Timestamp == 0 {
		return nil, fmt.Errorf("%w: no timestamp in zone program response", ErrStatus)
	}

	return &ZoneProgramResult{Zones: zones, Timestamp: env.Timestamp}, nil
}

// userDetails is the subset of the user document we need.
type userDetails struct {
	ID json.Number `json:"id"`
}

// UserID returns the numeric account identifier, fetched once and cached.
// The push transport needs it to build its client identifier.
func (s *Session) UserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.userID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	env, err := s.request(ctx, http.MethodGet, "user/selectUser", nil)
	if err != nil {
		return "", err
	}

	var user userDetails
	if err := json.Unmarshal(env.Data, &user); err != nil || user.ID.String() == "" {
		return "", fmt.Errorf("decoding user details: cannot get user id")
	}

	id := user.ID.String()
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
	return id, nil
}

// MessagingCredentials returns the user id and current access token the
// push transport authenticates with. The token is refreshed first if it
// is close to expiry.
func (s *Session) MessagingCredentials(ctx context.Context) (Credentials, error) {
	userID, err := s.UserID(ctx)
	if err != nil {
		return Credentials{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFresh(ctx); err != nil {
		return Credentials{}, err
	}
	return Credentials{UserID: userID, Token: s.token}, nil
}
