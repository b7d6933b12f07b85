package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/viant/afs"
)

// SetupRedisContainer starts a throwaway Redis and returns a client for it.
// The test is skipped when no container runtime is available.
func SetupRedisContainer(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, "redis:8-alpine")
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}

		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	return client
}

// Dataset is a small feature table and a gblinear pipeline whose predictions
// are 0.1 * visit_count, so demand decodes to trunc(exp(visit_count / 10)).
var Dataset = struct {
	Table string
	Model string
}{
	Table: `,institution,inst_type,visit_count
2021-07-18,inst-a,clinic,12
2021-07-18,inst-b,hospital,30
2021-07-18,inst-c,clinic,0
2021-07-19,inst-a,clinic,20
`,
	Model: `{
  "version": "fixture",
  "columns": ["institution", "inst_type", "visit_count"],
  "categorical": {
    "institution": ["inst-a", "inst-b", "inst-c"],
    "inst_type": ["clinic", "hospital"]
  },
  "booster": {"type": "gblinear", "bias": 0, "weights": [0, 0, 0.1]}
}`,
}

// WriteDataset stores table and model under a temp dir through afs and
// returns their URLs.
func WriteDataset(t *testing.T, table, model string) (tableURL, modelURL string) {
	t.Helper()

	ctx := context.Background()
	fs := afs.New()
	dir := t.TempDir()

	tableURL = filepath.Join(dir, "features.csv")
	modelURL = filepath.Join(dir, "demand_pipeline.json")

	for url, content := range map[string]string{tableURL: table, modelURL: model} {
		if err := fs.Upload(ctx, url, 0o644, strings.NewReader(content)); err != nil {
			t.Fatalf("write %s: %v", url, err)
		}
	}

	return tableURL, modelURL
}
