package vectorindex

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nyayasahayak/legal-assistant/internal/core/domain"
	"github.com/nyayasahayak/legal-assistant/internal/core/ports"
)

const formatVersion = 1

const (
	manifestFile = "manifest.json"
	chunksFile   = "chunks.json"
	vectorsFile  = "vectors.bin"
)

type manifest struct {
	FormatVersion int       `json:"format_version"`
	ModelID       string    `json:"model_id"`
	Dimensions    int       `json:"dimensions"`
	VectorCount   int       `json:"vector_count"`
	BuiltAt       time.Time `json:"built_at"`
}

// Store persists an Index to a directory and loads it back. Save writes into
// a temp sibling directory and renames it over the target, so a crash
// mid-write never leaves a readable-but-corrupt index behind.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Exists() bool {
	_, err := os.Stat(filepath.Join(s.dir, manifestFile))
	return err == nil
}

func (s *Store) Save(_ context.Context, index ports.SearchIndex) error {
	ix, ok := index.(*Index)
	if !ok {
		return fmt.Errorf("save index: unsupported index type %T", index)
	}

	tmp := s.dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("clear temp index dir: %w", err)
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return fmt.Errorf("create temp index dir: %w", err)
	}

	if err := s.writeFiles(tmp, ix); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove previous index: %w", err)
	}
	if err := os.Rename(tmp, s.dir); err != nil {
		return fmt.Errorf("publish index dir: %w", err)
	}
	return nil
}

func (s *Store) writeFiles(dir string, ix *Index) error {
	m := manifest{
		FormatVersion: formatVersion,
		ModelID:       ix.modelID,
		Dimensions:    ix.dim,
		VectorCount:   len(ix.vectors),
		BuiltAt:       time.Now().UTC(),
	}
	if err := writeJSON(filepath.Join(dir, manifestFile), m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, chunksFile), ix.chunks); err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, vectorsFile))
	if err != nil {
		return fmt.Errorf("create vectors file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, ix.dim*4)
	for _, v := range ix.vectors {
		for j, x := range v {
			binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(x))
		}
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("write vectors: %w", err)
		}
	}
	return f.Sync()
}

func (s *Store) Load(_ context.Context) (ports.SearchIndex, error) {
	var m manifest
	if err := readJSON(filepath.Join(s.dir, manifestFile), &m); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.WrapError(domain.ErrIndexLoad, "load index", fmt.Errorf("no index at %s: %w", s.dir, err))
		}
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index", fmt.Errorf("read manifest: %w", err))
	}
	if m.FormatVersion != formatVersion {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index",
			fmt.Errorf("unsupported format version %d", m.FormatVersion))
	}
	if m.Dimensions <= 0 || m.VectorCount <= 0 || m.ModelID == "" {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index", fmt.Errorf("manifest is incomplete"))
	}

	var chunks []domain.Chunk
	if err := readJSON(filepath.Join(s.dir, chunksFile), &chunks); err != nil {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index", fmt.Errorf("read chunks: %w", err))
	}
	if len(chunks) != m.VectorCount {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index",
			fmt.Errorf("chunk count %d does not match manifest vector count %d", len(chunks), m.VectorCount))
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, vectorsFile))
	if err != nil {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index", fmt.Errorf("read vectors: %w", err))
	}
	want := m.VectorCount * m.Dimensions * 4
	if len(raw) != want {
		return nil, domain.WrapError(domain.ErrIndexLoad, "load index",
			fmt.Errorf("vectors file has %d bytes, expected %d", len(raw), want))
	}

	vectors := make([][]float32, m.VectorCount)
	for i := range vectors {
		v := make([]float32, m.Dimensions)
		base := i * m.Dimensions * 4
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[base+j*4:]))
		}
		vectors[i] = v
	}

	return &Index{
		modelID: m.ModelID,
		dim:     m.Dimensions,
		chunks:  chunks,
		vectors: vectors,
	}, nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
