// Package store persists training sessions: one compressed model file per
// neural genome, a manifest per snapshot round listing every genome, and an
// optional SQLite ledger of round results.
package store

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/signalnine/thirtyone/network"
)

// ModelVersion is written into every model file header.
const ModelVersion = 1

// ModelExt is the extension of model files.
const ModelExt = ".brain.zst"

// ModelHeader is the JSON line preceding the gob payload of a model file.
type ModelHeader struct {
	Version int    `json:"version"`
	Stem    string `json:"stem"`
}

type modelFile struct {
	Header  ModelHeader
	Network network.Snapshot
}

// WriteModel writes net to path through a temporary file.
func WriteModel(path, stem string, net *network.Network) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create model directory")
	}
	tmp := path + ".tmp"
	if err := writeModel(tmp, stem, net); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "write model %s", stem)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "finalize model %s", stem)
	}
	return nil
}

func writeModel(path, stem string, net *network.Network) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	file := modelFile{Header: ModelHeader{Version: ModelVersion, Stem: stem}, Network: net.Snapshot()}
	hb, _ := json.Marshal(file.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&file); err != nil {
		return errors.Wrap(err, "gob encode")
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadModel loads a network written by WriteModel.
func ReadModel(path string) (*network.Network, ModelHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ModelHeader{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, ModelHeader{}, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	// The header line is repeated inside the gob payload.
	if _, err := br.ReadBytes('\n'); err != nil {
		return nil, ModelHeader{}, errors.Wrapf(err, "read header of %s", path)
	}
	var file modelFile
	if err := gob.NewDecoder(br).Decode(&file); err != nil {
		return nil, ModelHeader{}, errors.Wrapf(err, "gob decode %s", path)
	}
	if file.Header.Version != ModelVersion {
		return nil, file.Header, errors.Errorf("%s: model version %d, want %d", path, file.Header.Version, ModelVersion)
	}
	net, err := network.FromSnapshot(file.Network)
	if err != nil {
		return nil, file.Header, errors.Wrapf(err, "restore %s", path)
	}
	return net, file.Header, nil
}
