// Package utils provides tolerant JSON reading for producer output files.
// Analysis results come from LLM pipelines and occasionally arrive with
// trailing commas, markdown fences, or unquoted keys; the readers here
// repair such files instead of rejecting them.
package utils

import (
	"encoding/json"
	"os"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/rotisserie/eris"
)

// DecodeTolerant unmarshals data into v, repairing the payload first if a
// strict unmarshal fails. Supported repairs include missing quotes around
// keys, single quotes, unclosed arrays/objects, trailing commas, comments,
// and markdown code fences.
func DecodeTolerant(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return eris.Wrap(err, "json repair")
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return eris.Wrap(err, "unmarshal repaired json")
	}
	return nil
}

// ReadJSONFile reads path and decodes it tolerantly into v.
func ReadJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	return DecodeTolerant(data, v)
}

// ReadHJSONFile reads a human-edited Hjson file (comments, unquoted keys,
// optional commas) into v. Used for hand-maintained reference config such
// as sector overrides and the canonical question list.
func ReadHJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := hjson.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "parse hjson %s", path)
	}
	return nil
}
