package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/field"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile  = "metadata.json"
	particlesFile = "particles.csv"
	snapshotsFile = "snapshots.csv"
	radiusFile    = "mean_radius.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a stored run. Wavenumbers are stored after scaling;
// Scale records the factor that was applied.
type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Integrator  string             `json:"integrator"`
	Wavenumbers []float64          `json:"wavenumbers"`
	Scale       float64            `json:"scale"`
	RadiusFloor float64            `json:"radius_floor"`
	Singularity string             `json:"singularity"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Friction    float64            `json:"friction"`
	Steps       int                `json:"steps"`
	StepsTaken  int                `json:"steps_taken"`
	Bound       float64            `json:"bound"`
	Particles   int                `json:"particles"`
	Order       string             `json:"order"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata fills the run description from the config, the evaluator the
// run used and its result. Non-finite metrics (node_distance of a field with
// no nodes) are left out since JSON cannot hold them.
func NewMetadata(cfg *config.Config, ev *field.Evaluator, result *dynamo.Result) RunMetadata {
	p := cfg.Params()
	return RunMetadata{
		Name:        cfg.Name,
		Integrator:  cfg.Integrator,
		Wavenumbers: ev.Spec().Wavenumbers(),
		Scale:       cfg.Field.Scale,
		RadiusFloor: ev.Floor(),
		Singularity: ev.Policy().String(),
		Seed:        p.Seed,
		Dt:          p.Dt,
		Friction:    p.Friction,
		Steps:       p.Steps,
		StepsTaken:  result.StepsTaken,
		Bound:       p.Bound,
		Particles:   result.Final.Len(),
		Order:       p.Order.String(),
		Metrics:     finiteMetrics(result.Metrics),
	}
}

func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for name, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[name] = v
		}
	}
	return out
}

// Evaluator rebuilds the field the run was made with.
func (m *RunMetadata) Evaluator() (*field.Evaluator, error) {
	spec, err := field.NewSpec(1, m.Wavenumbers...)
	if err != nil {
		return nil, err
	}
	return field.NewEvaluator(spec,
		field.WithRadiusFloor(m.RadiusFloor),
		field.WithPolicy(field.ParsePolicy(m.Singularity)),
	), nil
}

// Save writes a run directory and returns its id.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), result.Final); err != nil {
		return "", err
	}
	if err := writeSnapshots(filepath.Join(runDir, snapshotsFile), result.Snapshots); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, radiusFile), result.MeanRadius); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeParticles(path string, s *dynamo.State) error {
	return writeCSV(path, []string{"x", "y", "vx", "vy"}, func(w *csv.Writer) error {
		for i := range s.Positions {
			p, v := s.Positions[i], s.Velocities[i]
			row := []string{formatFloat(p.X), formatFloat(p.Y), formatFloat(v.X), formatFloat(v.Y)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSnapshots(path string, snaps []dynamo.Snapshot) error {
	return writeCSV(path, []string{"step", "index", "x", "y"}, func(w *csv.Writer) error {
		for _, snap := range snaps {
			step := strconv.Itoa(snap.Step)
			for i, p := range snap.State.Positions {
				row := []string{step, strconv.Itoa(i), formatFloat(p.X), formatFloat(p.Y)}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeSeries(path string, series []float64) error {
	return writeCSV(path, []string{"step", "mean_radius"}, func(w *csv.Writer) error {
		for i, v := range series {
			if err := w.Write([]string{strconv.Itoa(i), formatFloat(v)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

func parseFloats(record []string) ([]float64, error) {
	out := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// LoadParticles reads the final state of a run.
func (s *Store) LoadParticles(runID string) (*dynamo.State, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}

	st := &dynamo.State{
		Positions:  make([]r2.Vec, 0, len(records)),
		Velocities: make([]r2.Vec, 0, len(records)),
	}
	for line, record := range records {
		vals, err := parseFloats(record)
		if err != nil || len(vals) != 4 {
			return nil, fmt.Errorf("%s line %d: malformed particle row", particlesFile, line+2)
		}
		st.Positions = append(st.Positions, r2.Vec{X: vals[0], Y: vals[1]})
		st.Velocities = append(st.Velocities, r2.Vec{X: vals[2], Y: vals[3]})
	}
	return st, nil
}

// LoadSnapshots reads the strided positions of a run, in step order.
// Velocities are not stored and come back as zero.
func (s *Store) LoadSnapshots(runID string) ([]dynamo.Snapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, snapshotsFile))
	if err != nil {
		return nil, err
	}

	snaps := make([]dynamo.Snapshot, 0)
	for line, record := range records {
		vals, err := parseFloats(record)
		if err != nil || len(vals) != 4 {
			return nil, fmt.Errorf("%s line %d: malformed snapshot row", snapshotsFile, line+2)
		}
		step := int(vals[0])
		if len(snaps) == 0 || snaps[len(snaps)-1].Step != step {
			snaps = append(snaps, dynamo.Snapshot{Step: step, State: &dynamo.State{}})
		}
		cur := snaps[len(snaps)-1].State
		cur.Positions = append(cur.Positions, r2.Vec{X: vals[2], Y: vals[3]})
		cur.Velocities = append(cur.Velocities, r2.Vec{})
	}
	return snaps, nil
}

// LoadMeanRadius reads the per-step mean radius series.
func (s *Store) LoadMeanRadius(runID string) ([]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, radiusFile))
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(records))
	for _, record := range records {
		if len(record) != 2 {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
