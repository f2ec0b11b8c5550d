package main

import (
	"encoding/hex"
	"encoding/json"
	"math/big"
	"os"

	"github.com/daglabs/prunepoint/domain/consensus/model/externalapi"
	"github.com/daglabs/prunepoint/domain/consensus/processes/pruningprocessor"
	"github.com/pkg/errors"
)

// scriptEntry is a single line of a pruneharness script file: either a
// Process message carrying the sink's compact GHOSTDAG data, or an Exit
// request. Exactly one of the two should be set.
type scriptEntry struct {
	Exit           bool   `json:"exit,omitempty"`
	BlueScore      uint64 `json:"blueScore,omitempty"`
	BlueWork       string `json:"blueWork,omitempty"`
	SelectedParent string `json:"selectedParent,omitempty"`
}

func loadScript(path string) ([]pruningprocessor.ProcessMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading script file %s", path)
	}

	var entries []scriptEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "failed parsing script file %s", path)
	}

	messages := make([]pruningprocessor.ProcessMessage, len(entries))
	for i, entry := range entries {
		if entry.Exit {
			messages[i] = pruningprocessor.ProcessMessage{Exit: true}
			continue
		}

		selectedParent, err := parseHash(entry.SelectedParent)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d: invalid selectedParent", i)
		}

		blueWork, ok := new(big.Int).SetString(entry.BlueWork, 0)
		if !ok {
			return nil, errors.Errorf("entry %d: invalid blueWork %q", i, entry.BlueWork)
		}

		messages[i] = pruningprocessor.ProcessMessage{
			SinkGHOSTDAGData: &externalapi.CompactGhostdagData{
				BlueScore:      entry.BlueScore,
				BlueWork:       externalapi.NewBlueWork(blueWork),
				SelectedParent: selectedParent,
			},
		}
	}

	return messages, nil
}

func parseHash(s string) (*externalapi.DomainHash, error) {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) != externalapi.DomainHashSize {
		return nil, errors.Errorf("expected %d bytes, got %d", externalapi.DomainHashSize, len(decoded))
	}
	var hash externalapi.DomainHash
	copy(hash[:], decoded)
	return &hash, nil
}
