package main

import (
	"encoding/json"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestGetOutputDefaultIsSilent(t *testing.T) {
	out, err := getOutput([]byte{1, 2}, 0, "")
	require.Nil(t, err)
	require.Equal(t, "", out)
}

func TestGetOutputText(t *testing.T) {
	out, err := getOutput([]byte{7}, 1, "text")
	require.Nil(t, err)
	require.Equal(t, "07[00]", out)
}

func TestGetOutputJSON(t *testing.T) {
	viper.Set("no-color", true)
	defer viper.Reset()

	out, err := getOutput([]byte{7, 0, 42}, 2, "JSON")
	require.Nil(t, err)

	var payload struct {
		Cells   []int `json:"cells"`
		Pointer int   `json:"pointer"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, []int{7, 0, 42}, payload.Cells)
	require.Equal(t, 2, payload.Pointer)
}

func TestGetOutputUnknownFormat(t *testing.T) {
	_, err := getOutput(nil, 0, "yaml")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unknown output format")
}
