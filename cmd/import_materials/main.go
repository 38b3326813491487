// import_materials registra materiales a partir de una planilla CSV exportada del sistema anterior.
//
// Uso: go run ./cmd/import_materials -file materiais.csv [-encoding latin1|utf8] [-actor importacao] [-dry-run]
//
// Cada fila pasa por el registro: genera código, valida y registra la cantidad inicial como entrada.
// Usa la base configurada (DATABASE_URL / DB_*), igual que la API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	file := flag.String("file", "materiais.csv", "planilla CSV a importar")
	encoding := flag.String("encoding", "latin1", "codificación de la planilla: latin1 | utf8")
	actor := flag.String("actor", "importacao", "usuario que firma las entradas iniciales")
	dryRun := flag.Bool("dry-run", false, "solo valida la planilla, no escribe")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name + "-import"})

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir planilla: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r, err := decodeReader(f, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	rows, err := parseRows(r, *actor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer planilla: %v\n", err)
		os.Exit(1)
	}
	log.Info().Int("filas", len(rows)).Str("archivo", *file).Msg("planilla leída")
	if *dryRun {
		return
	}
	if !cfg.DB.Enabled() {
		fmt.Fprintln(os.Stderr, "Configure DATABASE_URL o DB_HOST para importar")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name+"-import")
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	registry := inventory.NewRegistry(postgres.NewTxRunner(pool), postgres.NewMaterialRepository(pool), log,
		inventory.RegistryConfig{MaxRetries: cfg.Ledger.MaxRetries})

	var failed int
	for _, rw := range rows {
		m, err := registry.Create(ctx, rw.input)
		if err != nil {
			failed++
			log.Error().Err(err).Int("linea", rw.line).Str("nombre", rw.input.Name).Msg("fila rechazada")
			continue
		}
		fmt.Printf("%s\t%s\t%d\n", m.Code, m.Name, m.Quantity)
	}
	log.Info().Int("importados", len(rows)-failed).Int("rechazados", failed).Msg("importación finalizada")
	if failed > 0 {
		os.Exit(2)
	}
}
