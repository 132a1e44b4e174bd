package controllers

import (
	"Palindra/services/redis"
	"Palindra/services/sync"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetMatchInfo(t *testing.T) {
	// Setup test environment
	gin.SetMode(gin.TestMode)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	// Create controller with mocked dependencies
	matchInfoController := &MatchInfoController{
		DB:          db,
		RedisClient: &redis.RedisClient{},
		SyncManager: &sync.SyncManager{},
	}

	// Setup router
	router := gin.New()
	router.GET("/matchInfo/:match_id", matchInfoController.GetMatchInfo)

	mock.ExpectQuery(`SELECT id, status, mode, seed, time_limit_seconds FROM matches WHERE id = \$1`).
		WithArgs("m-123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "mode", "seed", "time_limit_seconds"}).
			AddRow("m-123", "finished", "quick", "seed-abc", 180))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM match_players WHERE match_id = \$1`).
		WithArgs("m-123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT username FROM match_players WHERE match_id = \$1 AND winner = true`).
		WithArgs("m-123").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("alice"))

	// Execute request
	req, _ := http.NewRequest("GET", "/matchInfo/m-123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	assert.Equal(t, "m-123", response["id"])
	assert.Equal(t, "finished", response["status"])
	assert.Equal(t, "quick", response["mode"])
	assert.Equal(t, "seed-abc", response["seed"])
	assert.Equal(t, float64(2), response["player_count"])
	assert.Equal(t, "alice", response["winner"])

	// Verify all expectations were met
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMatchInfoNoWinnerYet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	matchInfoController := &MatchInfoController{DB: db}

	router := gin.New()
	router.GET("/matchInfo/:match_id", matchInfoController.GetMatchInfo)

	mock.ExpectQuery(`SELECT id, status, mode, seed, time_limit_seconds FROM matches WHERE id = \$1`).
		WithArgs("m-456").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "mode", "seed", "time_limit_seconds"}).
			AddRow("m-456", "active", "invite", "seed-def", 180))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM match_players WHERE match_id = \$1`).
		WithArgs("m-456").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT username FROM match_players WHERE match_id = \$1 AND winner = true`).
		WithArgs("m-456").
		WillReturnError(sql.ErrNoRows)

	req, _ := http.NewRequest("GET", "/matchInfo/m-456", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	assert.Equal(t, "active", response["status"])
	assert.NotContains(t, response, "winner")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMatchInfoNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, _ := sqlmock.New()
	defer db.Close()

	matchInfoController := &MatchInfoController{DB: db}

	router := gin.New()
	router.GET("/matchInfo/:match_id", matchInfoController.GetMatchInfo)

	mock.ExpectQuery(`SELECT id, status, mode, seed, time_limit_seconds FROM matches WHERE id = \$1`).
		WithArgs("nonexistent").
		WillReturnError(sql.ErrNoRows)

	req, _ := http.NewRequest("GET", "/matchInfo/nonexistent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
