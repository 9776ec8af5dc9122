package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/signalnine/thirtyone/network"
)

// Session is the directory holding one training session.
type Session struct {
	Dir string
}

// OpenSession returns the session named name under root, creating its
// directory.
func OpenSession(root, name string) (*Session, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create session %s", dir)
	}
	return &Session{Dir: dir}, nil
}

// ModelPath is where the model of the genome named stem lives.
func (s *Session) ModelPath(stem string) string {
	return filepath.Join(s.Dir, stem+ModelExt)
}

// ManifestPath is the manifest of a snapshot round, listing the genomes as
// ranked in that round.
func (s *Session) ManifestPath(round int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("round%d.txt", round))
}

// FinalManifestPath is the manifest of the roster evolved after round, written
// when training stops.
func (s *Session) FinalManifestPath(round int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("round%d_final.txt", round))
}

// SaveModel writes the model of stem unless a file for it already exists.
// Models are immutable once written, so an existing file is kept. It reports
// whether a file was written.
func (s *Session) SaveModel(stem string, net *network.Network) (bool, error) {
	path := s.ModelPath(stem)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "stat model %s", stem)
	}
	if err := WriteModel(path, stem, net); err != nil {
		return false, err
	}
	return true, nil
}

// LoadModel reads the model of stem.
func (s *Session) LoadModel(stem string) (*network.Network, error) {
	net, hdr, err := ReadModel(s.ModelPath(stem))
	if err != nil {
		return nil, err
	}
	if hdr.Stem != stem {
		return nil, errors.Errorf("model file for %s names %s", stem, hdr.Stem)
	}
	return net, nil
}

// WriteManifest lists the genome stems of a snapshot round, one per line.
func (s *Session) WriteManifest(round int, stems []string) error {
	return writeManifest(s.ManifestPath(round), round, stems)
}

// WriteFinalManifest lists the genome stems evolved after round.
func (s *Session) WriteFinalManifest(round int, stems []string) error {
	return writeManifest(s.FinalManifestPath(round), round, stems)
}

func writeManifest(path string, round int, stems []string) error {
	tmp := path + ".tmp"
	var b strings.Builder
	for _, stem := range stems {
		b.WriteString(stem)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return errors.Wrapf(err, "write manifest round %d", round)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "finalize manifest round %d", round)
	}
	return nil
}

// ReadManifest returns the non-empty lines of a snapshot round's manifest.
func (s *Session) ReadManifest(round int) ([]string, error) {
	return readManifest(s.ManifestPath(round), round)
}

// ReadFinalManifest returns the stems evolved after round.
func (s *Session) ReadFinalManifest(round int) ([]string, error) {
	return readManifest(s.FinalManifestPath(round), round)
}

// ResumeManifest returns the roster to continue from after round: the final
// manifest if training stopped there, otherwise the snapshot manifest.
func (s *Session) ResumeManifest(round int) (stems []string, final bool, err error) {
	if _, statErr := os.Stat(s.FinalManifestPath(round)); statErr == nil {
		stems, err = s.ReadFinalManifest(round)
		return stems, true, err
	}
	stems, err = s.ReadManifest(round)
	return stems, false, err
}

func readManifest(path string, round int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open manifest round %d", round)
	}
	defer f.Close()

	var stems []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		stems = append(stems, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read manifest round %d", round)
	}
	return stems, nil
}

var manifestName = regexp.MustCompile(`^round(\d+)(?:_final)?\.txt$`)

// Rounds lists the rounds that have a manifest of either kind, in ascending
// order.
func (s *Session) Rounds() ([]int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list session %s", s.Dir)
	}
	var rounds []int
	seen := make(map[int]bool)
	for _, e := range entries {
		m := manifestName.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		rounds = append(rounds, n)
	}
	sort.Ints(rounds)
	return rounds, nil
}

// LatestRound returns the highest round with a manifest, or -1.
func (s *Session) LatestRound() (int, error) {
	rounds, err := s.Rounds()
	if err != nil {
		return -1, err
	}
	if len(rounds) == 0 {
		return -1, nil
	}
	return rounds[len(rounds)-1], nil
}

// ScanPath is where the scan image called name lives.
func (s *Session) ScanPath(name string) string {
	return filepath.Join(s.Dir, name+".png")
}
