package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/viper"
)

func getOutput(cells []byte, pointer int, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		// Program output already went to the sink; print nothing extra.
		return "", nil
	case "json":
		out, err := getOutputJSON(cells, pointer)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case "text":
		return hexDump(cells, pointer), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(cells []byte, pointer int) ([]byte, error) {
	// []byte would marshal as base64; the dump wants one number per cell.
	values := make([]int, len(cells))
	for i, c := range cells {
		values[i] = int(c)
	}
	payload := map[string]any{
		"cells":   values,
		"pointer": pointer,
	}
	if viper.GetBool("no-color") {
		return json.MarshalIndent(payload, "", "  ")
	}
	return prettyjson.Marshal(payload)
}
