package server

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRunsShutdownHooksOnListenerError(t *testing.T) {
	var order []string
	s := &HTTPServer{
		Logger: logrus.New(),
		OnShutdown: []func(){
			func() { order = append(order, "first") },
			func() { order = append(order, "second") },
		},
	}

	err := s.Start("256.256.256.256:0")
	require.Error(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}
