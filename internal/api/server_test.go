package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tetragramaton/amtron-api/internal/amtron"
	"github.com/tetragramaton/amtron-api/internal/ha"
	modbusIface "github.com/tetragramaton/amtron-api/internal/interface/modbus"
	"github.com/tetragramaton/amtron-api/internal/metrics"
	mockmodbus "github.com/tetragramaton/amtron-api/mocks/modbus"
)

// echoDevice stores written values and returns them on read.
type echoDevice struct {
	ints   map[uint16]uint16
	floats map[uint16]float32
	writes int
}

func newEchoDevice() *echoDevice {
	return &echoDevice{ints: map[uint16]uint16{}, floats: map[uint16]float32{}}
}

func (d *echoDevice) ReadInt(addr uint16) (uint16, error)    { return d.ints[addr], nil }
func (d *echoDevice) ReadFloat(addr uint16) (float32, error) { return d.floats[addr], nil }
func (d *echoDevice) Close() error                           { return nil }

func (d *echoDevice) WriteInt(addr uint16, value uint16) error {
	d.writes++
	d.ints[addr] = value
	return nil
}

func (d *echoDevice) WriteFloat(addr uint16, value float32) error {
	d.writes++
	d.floats[addr] = value
	return nil
}

type recordingPublisher struct {
	fields []string
}

func (p *recordingPublisher) Announce() error { return nil }
func (p *recordingPublisher) Close()          {}

func (p *recordingPublisher) PublishSetting(field string, _ any) {
	p.fields = append(p.fields, field)
}

type ServerTest struct {
	suite.Suite
	device    *echoDevice
	publisher *recordingPublisher
	handler   http.Handler
}

func (s *ServerTest) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ServerTest) SetupTest() {
	s.device = newEchoDevice()
	s.publisher = &recordingPublisher{}
	s.handler = newTestServer(s.T(), s.device, s.publisher)
}

func newTestServer(t *testing.T, client modbusIface.Client, publisher ha.Publisher) http.Handler {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	return NewServer(amtron.NewCharger(client), publisher, reg).Handler()
}

func (s *ServerTest) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *ServerTest) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *ServerTest) Test_EVSEStatus() {
	s.device.ints[0x0100] = 5
	rec := s.do(http.MethodGet, "/status/evse")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"evse_status":5,"description":"Charging"}`, rec.Body.String())
}

func (s *ServerTest) Test_EVSEStatus_UnknownCode() {
	s.device.ints[0x0100] = 42
	rec := s.do(http.MethodGet, "/status/evse")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"evse_status":42,"description":"Unknown"}`, rec.Body.String())
}

func (s *ServerTest) Test_AuthorizationStatus() {
	s.device.ints[0x0101] = 1
	rec := s.do(http.MethodGet, "/status/authorization")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"authorization_status":1,"description":"Authorized"}`, rec.Body.String())
}

func (s *ServerTest) Test_SessionValues() {
	s.device.floats[0x0512] = 11040
	s.device.floats[0x0B02] = 1234.5
	s.device.floats[0x0B04] = 3600

	rec := s.do(http.MethodGet, "/sessions/current/power")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"current_power":11040}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/sessions/current/energy")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"current_energy":1234.5}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/sessions/current/duration")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"session_duration":3600}`, rec.Body.String())
}

func (s *ServerTest) Test_CurrentLimitPut_ValidValuesReadBack() {
	for _, v := range []string{"0", "6", "6.0", "6.5", "10", "15.75", "16", "16.0"} {
		rec := s.do(http.MethodPut, "/settings/current-limit?current_limit="+v)
		s.Equal(http.StatusOK, rec.Code, v)

		var resp CurrentLimitResponse
		s.decode(rec, &resp)
		s.Equal(s.device.floats[0x0302], resp.CurrentLimit, v)

		rec = s.do(http.MethodGet, "/settings/current-limit")
		s.Equal(http.StatusOK, rec.Code)
		var got CurrentLimitResponse
		s.decode(rec, &got)
		s.Equal(resp, got)
	}
	s.Equal(8, s.device.writes)
	s.Len(s.publisher.fields, 8)
}

func (s *ServerTest) Test_CurrentLimitPut_Rejected() {
	for _, v := range []string{"0.1", "5", "5.999", "16.001", "17", "-6", "5.9999999", "16.0000001", "NaN", "Inf", "abc", "1e400", ""} {
		rec := s.do(http.MethodPut, "/settings/current-limit?current_limit="+v)
		s.Equal(http.StatusBadRequest, rec.Code, v)
		s.Contains(rec.Body.String(), "error")
	}
	rec := s.do(http.MethodPut, "/settings/current-limit")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "missing query parameter current_limit")

	s.Zero(s.device.writes)
	s.Empty(s.publisher.fields)
}

func (s *ServerTest) Test_CurrentLimitPut_NegativeZero() {
	rec := s.do(http.MethodPut, "/settings/current-limit?current_limit=-0")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"current_limit":0}`, rec.Body.String())
	s.Equal(uint32(0), math.Float32bits(s.device.floats[0x0302]))
}

func (s *ServerTest) Test_ChargingReleasePut() {
	rec := s.do(http.MethodPut, "/settings/charging-release?charging_release=1")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"charging_release":1,"description":"Charging allowed"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/settings/charging-release?charging_release=0")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"charging_release":0,"description":"Charging not allowed"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/settings/charging-release")
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"charging_release":0,"description":"Charging not allowed"}`, rec.Body.String())

	s.Equal([]string{"charging_release", "charging_release"}, s.publisher.fields)
}

func (s *ServerTest) Test_ChargingReleasePut_Rejected() {
	for _, v := range []string{"2", "-1", "65537", "1.0", "yes"} {
		rec := s.do(http.MethodPut, "/settings/charging-release?charging_release="+v)
		s.Equal(http.StatusBadRequest, rec.Code, v)
	}
	rec := s.do(http.MethodPut, "/settings/charging-release")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Zero(s.device.writes)
}

func (s *ServerTest) Test_Metrics() {
	s.do(http.MethodGet, "/status/evse")
	rec := s.do(http.MethodGet, "/metrics")
	s.Equal(http.StatusOK, rec.Code)
	s.True(strings.Contains(rec.Body.String(), "amtron_http_requests_total"))
}

func (s *ServerTest) Test_UnknownRoute() {
	rec := s.do(http.MethodGet, "/settings/unknown")
	s.Equal(http.StatusNotFound, rec.Code)
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerTest))
}

func TestTransportErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	busErr := errors.New("modbus: response timeout")

	client := mockmodbus.NewMockClient(gomock.NewController(t))
	client.EXPECT().ReadInt(uint16(0x0100)).Return(uint16(0), busErr)
	client.EXPECT().ReadFloat(uint16(0x0B02)).Return(float32(0), busErr)
	client.EXPECT().WriteFloat(uint16(0x0302), float32(10)).Return(busErr)
	client.EXPECT().WriteInt(uint16(0x0D05), uint16(1)).Return(nil)
	client.EXPECT().ReadInt(uint16(0x0D05)).Return(uint16(0), busErr)

	publisher := &recordingPublisher{}
	h := newTestServer(t, client, publisher)

	for _, tc := range []struct {
		method, target string
	}{
		{http.MethodGet, "/status/evse"},
		{http.MethodGet, "/sessions/current/energy"},
		{http.MethodPut, "/settings/current-limit?current_limit=10"},
		{http.MethodPut, "/settings/charging-release?charging_release=1"},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: expected 500, got %d", tc.method, tc.target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "response timeout") {
			t.Errorf("%s %s: body %s", tc.method, tc.target, rec.Body.String())
		}
	}
	if len(publisher.fields) != 0 {
		t.Errorf("unexpected publish %v", publisher.fields)
	}
}
