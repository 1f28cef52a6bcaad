package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/fmsedu/curriculum/core"
	"github.com/fmsedu/curriculum/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)

	usr := user.User{ID: "42", Email: "staff@cmu.ac.th"}
	logger.Error("saving PLO", errors.New("boom"), usr)

	out := buf.String()
	assert.Contains(t, out, "ERROR: saving PLO")
	assert.Contains(t, out, "boom")
	assert.NotContains(t, out, "staff@cmu.ac.th")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{}
	extras := map[string]interface{}{"path": "/api/plos"}
	args := logger.prepare("msg", []interface{}{user.User{ID: "1"}, extras, user.User{ID: "2"}})
	assert.Equal(t, []interface{}{"msg", extras}, args)
}
