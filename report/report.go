// Package report saves and loads the episode totals of a run.
// Learned value tables are never saved.
package report

import (
	"encoding/gob"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"

	"github.com/timpalpant/alpharps"
	"github.com/timpalpant/alpharps/sarsa"
)

// Report describes one invocation: its configuration and the results
// against every opponent.
type Report struct {
	Created time.Time
	Seed    int64
	Config  sarsa.Config
	Params  alpharps.Params
	Results []alpharps.Result
}

// Encode writes r to w as gzip-compressed gob.
func Encode(w io.Writer, r *Report) error {
	gw := gzip.NewWriter(w)
	if err := gob.NewEncoder(gw).Encode(r); err != nil {
		gw.Close()
		return errors.Wrap(err, "encoding report")
	}

	return gw.Close()
}

// Decode reads a Report written by Encode.
func Decode(r io.Reader) (*Report, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening report")
	}
	defer gr.Close()

	var result Report
	if err := gob.NewDecoder(gr).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decoding report")
	}

	return &result, nil
}

func Save(filename string, r *Report) error {
	glog.Infof("Saving report to: %v", filename)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := Encode(f, r); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func Load(filename string) (*Report, error) {
	glog.Infof("Loading report from: %v", filename)
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
