package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/partkade/partsearch/internal/catalog"
	"github.com/partkade/partsearch/internal/config"
	"github.com/partkade/partsearch/internal/searcher"
	"github.com/partkade/partsearch/pkg/types"
)

const usage = `partsearch-admin: catalog maintenance for the partsearch MCP server

Usage:
  partsearch-admin import <file.json>   load parts and synonyms into the catalog
  partsearch-admin search <query>       run a base-strategy search against the catalog
  partsearch-admin status               print catalog statistics

Configuration is read the same way the server reads it (partsearch.yaml,
PARTSEARCH_* environment). When redis is enabled, import publishes a
catalog-change signal so running servers refresh immediately.
`

// importFile is the JSON shape the import command accepts
type importFile struct {
	Parts    []*types.Part    `json:"parts"`
	Synonyms []importSynonym  `json:"synonyms"`
}

// importSynonym references its part by OEM code, not database ID, so catalog
// files stay portable
type importSynonym struct {
	OEMCode string  `json:"oem_code"`
	Alias   string  `json:"alias"`
	Weight  float64 `json:"weight"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("PARTSEARCH_CONFIG_DIR"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := catalog.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open catalog database")
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	switch os.Args[1] {
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if err := runImport(ctx, cfg, store, os.Args[2], log); err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
	case "search":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		if err := runSearch(ctx, store, os.Args[2], log); err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
	case "status":
		if err := runStatus(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("status failed")
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runImport(ctx context.Context, cfg *config.Config, store catalog.Storage, path string, log zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file importFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	// Remember inserted IDs so synonyms can reference parts by OEM code
	idByCode := make(map[string]int64, len(file.Parts))
	for _, part := range file.Parts {
		if err := store.UpsertPart(ctx, part); err != nil {
			return fmt.Errorf("part %q: %w", part.OEMCode, err)
		}
		idByCode[part.OEMCode] = part.ID
	}

	var synCount int
	for _, syn := range file.Synonyms {
		partID, ok := idByCode[syn.OEMCode]
		if !ok {
			log.Warn().Str("oem_code", syn.OEMCode).Str("alias", syn.Alias).Msg("synonym references unknown part, skipped")
			continue
		}
		if err := store.UpsertSynonym(ctx, &types.Synonym{
			PartID: partID,
			Alias:  syn.Alias,
			Weight: syn.Weight,
		}); err != nil {
			return fmt.Errorf("synonym %q: %w", syn.Alias, err)
		}
		synCount++
	}

	log.Info().Int("parts", len(file.Parts)).Int("synonyms", synCount).Msg("import complete")

	if cfg.Redis.Enabled {
		holder := catalog.NewHolder(store, 0, zerolog.Nop())
		signal, err := catalog.NewChangeSignal(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel, holder, log)
		if err != nil {
			return fmt.Errorf("connecting redis: %w", err)
		}
		defer func() { _ = signal.Close() }()
		if err := signal.Publish(ctx, fmt.Sprintf("import:%s", path)); err != nil {
			return err
		}
		log.Info().Msg("catalog change signal published")
	}
	return nil
}

func runSearch(ctx context.Context, store catalog.Storage, query string, log zerolog.Logger) error {
	holder := catalog.NewHolder(store, 0, log)
	if err := holder.Refresh(ctx); err != nil {
		return err
	}

	engine := searcher.NewEngine(holder, nil, log)
	resp, err := engine.Search(ctx, searcher.SearchRequest{Query: query})
	if err != nil {
		return err
	}

	for _, r := range resp.Results {
		fmt.Printf("%2d. [%.3f %-8s] %s (%s)\n", r.Rank, r.Score, r.Type, r.Part.Name, r.Part.OEMCode)
	}
	for _, w := range resp.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if len(resp.Results) == 0 {
		fmt.Println("no results")
	}
	return nil
}

func runStatus(ctx context.Context, store catalog.Storage) error {
	status, err := store.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("parts:    %d (%d active)\n", status.PartCount, status.ActiveCount)
	fmt.Printf("synonyms: %d\n", status.SynonymCount)
	return nil
}
