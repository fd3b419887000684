package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/database/testdb"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/mail/mailtest"
	"github.com/Olliveer/happy-2.0-backend-deploy/internal/storage/storagetest"
)

func TestHealth(t *testing.T) {
	cases := []struct {
		name     string
		pingErr  error
		status   int
		database string
	}{
		{"database up", nil, http.StatusOK, "ok"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer sqlDB.Close()

			ping := mock.ExpectPing()
			if tc.pingErr != nil {
				ping.WillReturnError(tc.pingErr)
			}

			hs := NewHandlerSet(zerolog.Nop(), testdb.Open(t), sqlDB, storagetest.NewMemory(), &mailtest.Recorder{}, nil, testConfig(t))
			engine := gin.New()
			hs.Register(&engine.RouterGroup)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.status, w.Code)
			body := decodeMap(t, w)
			assert.Equal(t, tc.database, body["database"])
			assert.Equal(t, "memory", body["storage"])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
