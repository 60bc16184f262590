package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tetragramaton/amtron-api/internal/amtron"
)

const (
	paramCurrentLimit    = "current_limit"
	paramChargingRelease = "charging_release"
)

type EVSEStatusResponse struct {
	EVSEStatus  uint16 `json:"evse_status"`
	Description string `json:"description"`
}

type AuthorizationStatusResponse struct {
	AuthorizationStatus uint16 `json:"authorization_status"`
	Description         string `json:"description"`
}

type CurrentLimitResponse struct {
	CurrentLimit float32 `json:"current_limit"`
}

type ChargingReleaseResponse struct {
	ChargingRelease uint16 `json:"charging_release"`
	Description     string `json:"description"`
}

type SessionPowerResponse struct {
	CurrentPower float32 `json:"current_power"`
}

type SessionEnergyResponse struct {
	CurrentEnergy float32 `json:"current_energy"`
}

type SessionDurationResponse struct {
	SessionDuration float32 `json:"session_duration"`
}

func (s *Server) EVSEStatusGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := s.charger.EVSEStatus()
		if err != nil {
			busError(c, "read evse status", err)
			return
		}
		c.JSON(http.StatusOK, EVSEStatusResponse{
			EVSEStatus:  uint16(status),
			Description: status.Description(),
		})
	}
}

func (s *Server) AuthorizationStatusGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := s.charger.AuthorizationStatus()
		if err != nil {
			busError(c, "read authorization status", err)
			return
		}
		c.JSON(http.StatusOK, AuthorizationStatusResponse{
			AuthorizationStatus: uint16(status),
			Description:         status.Description(),
		})
	}
}

func (s *Server) CurrentLimitGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respondCurrentLimit(c)
	}
}

func (s *Server) CurrentLimitPut() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery(paramCurrentLimit)
		if !ok {
			badRequest(c, fmt.Errorf("missing query parameter %s", paramCurrentLimit))
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid %s %q", paramCurrentLimit, raw))
			return
		}
		if err := s.charger.SetCurrentLimit(v); err != nil {
			if errors.Is(err, amtron.ErrInvalidCurrentLimit) {
				badRequest(c, err)
				return
			}
			busError(c, "write current limit", err)
			return
		}
		if resp, ok := s.respondCurrentLimit(c); ok {
			s.publisher.PublishSetting(paramCurrentLimit, resp)
		}
	}
}

func (s *Server) respondCurrentLimit(c *gin.Context) (CurrentLimitResponse, bool) {
	limit, err := s.charger.CurrentLimit()
	if err != nil {
		busError(c, "read current limit", err)
		return CurrentLimitResponse{}, false
	}
	resp := CurrentLimitResponse{CurrentLimit: limit}
	c.JSON(http.StatusOK, resp)
	return resp, true
}

func (s *Server) ChargingReleaseGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respondChargingRelease(c)
	}
}

func (s *Server) ChargingReleasePut() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.GetQuery(paramChargingRelease)
		if !ok {
			badRequest(c, fmt.Errorf("missing query parameter %s", paramChargingRelease))
			return
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, fmt.Errorf("invalid %s %q", paramChargingRelease, raw))
			return
		}
		if err := s.charger.SetChargingRelease(v); err != nil {
			if errors.Is(err, amtron.ErrInvalidChargingRelease) {
				badRequest(c, err)
				return
			}
			busError(c, "write charging release", err)
			return
		}
		if resp, ok := s.respondChargingRelease(c); ok {
			s.publisher.PublishSetting(paramChargingRelease, resp)
		}
	}
}

func (s *Server) respondChargingRelease(c *gin.Context) (ChargingReleaseResponse, bool) {
	mode, err := s.charger.ChargingRelease()
	if err != nil {
		busError(c, "read charging release", err)
		return ChargingReleaseResponse{}, false
	}
	resp := ChargingReleaseResponse{
		ChargingRelease: uint16(mode),
		Description:     mode.Description(),
	}
	c.JSON(http.StatusOK, resp)
	return resp, true
}

func (s *Server) SessionPowerGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := s.charger.SessionPower()
		if err != nil {
			busError(c, "read session power", err)
			return
		}
		c.JSON(http.StatusOK, SessionPowerResponse{CurrentPower: v})
	}
}

func (s *Server) SessionEnergyGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := s.charger.SessionEnergy()
		if err != nil {
			busError(c, "read session energy", err)
			return
		}
		c.JSON(http.StatusOK, SessionEnergyResponse{CurrentEnergy: v})
	}
}

func (s *Server) SessionDurationGet() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := s.charger.SessionDuration()
		if err != nil {
			busError(c, "read session duration", err)
			return
		}
		c.JSON(http.StatusOK, SessionDurationResponse{SessionDuration: v})
	}
}

func badRequest(c *gin.Context, err error) {
	log.Debugf("rejected %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func busError(c *gin.Context, what string, err error) {
	log.Warnf("failed to %s: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
