package api

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraincognita07/lunacycle/internal/cycle"
	"github.com/terraincognita07/lunacycle/internal/services"
)

func TestShareAndPartnerEndpoints(t *testing.T) {
	ta := newTestApp(t)
	logPeriod(t, ta, cycle.DateOnly(time.Now().UTC()), 3)

	response := ta.do(t, http.MethodPost, "/api/share", nil)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	link := struct {
		Token string `json:"token"`
		Path  string `json:"path"`
	}{}
	decodeJSON(t, response, &link)
	require.NotEmpty(t, link.Token)

	response = ta.do(t, http.MethodGet, link.Path, nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	snapshot := partnerResponse{}
	decodeJSON(t, response, &snapshot)
	assert.Equal(t, cycle.PhaseMenstrual, snapshot.Phase)
	assert.Equal(t, 28, snapshot.AverageCycle)
	assert.NotEmpty(t, snapshot.PhaseInfo.Name)

	response = ta.do(t, http.MethodGet, "/api/partner?token="+url.QueryEscape(link.Token+"x"), nil)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)

	response = ta.do(t, http.MethodPost, "/api/partner/chat", map[string]string{"token": link.Token, "message": "How can I help?"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	reply := services.ChatReply{}
	decodeJSON(t, response, &reply)
	assert.True(t, reply.Fallback)
	assert.NotEmpty(t, reply.Reply)

	response = ta.do(t, http.MethodPost, "/api/partner/chat", map[string]string{"token": link.Token})
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestPartnerRoutesBypassLock(t *testing.T) {
	ta := newTestApp(t)
	response := ta.do(t, http.MethodPut, "/api/settings/lock", map[string]string{"pin": "1234"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	session := responseCookie(response, sessionCookieName)

	response = ta.do(t, http.MethodPost, "/api/share", nil, session)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	link := struct {
		Path string `json:"path"`
	}{}
	decodeJSON(t, response, &link)

	response = ta.do(t, http.MethodGet, link.Path, nil)
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestAdviceEndpointFallsBack(t *testing.T) {
	ta := newTestApp(t)

	response := ta.do(t, http.MethodGet, "/api/advice?role=partner", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	advice := services.Advice{}
	decodeJSON(t, response, &advice)
	assert.True(t, advice.Fallback)
	assert.Equal(t, services.AdviceReasonDisabled, advice.Reason)
	assert.Len(t, advice.Tips, 3)

	response = ta.do(t, http.MethodGet, "/api/advice?role=doctor", nil)
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}
