// citypay runs the payroll pipeline as a one-shot batch: load the raw table,
// normalize it, classify employees as of a reference date, and write the
// cleaned table, classifications and summary reports as CSVs.
//
// The raw table comes from a CSV (-data) or from ClickHouse/Postgres
// (-source, -query, connection settings from the environment or a .env file).
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	cp "github.com/invertedv/citypay"
	"github.com/invertedv/citypay/classify"
	"github.com/invertedv/citypay/clean"
	"github.com/invertedv/citypay/report"
)

func main() {
	var (
		source   = flag.String("source", "file", "raw table source: file, clickhouse or postgres")
		dataPath = flag.String("data", "", "raw payroll CSV (source=file)")
		query    = flag.String("query", "", "query returning the raw table (source=clickhouse/postgres)")
		boroughs = flag.String("boroughs", "", "borough lookup CSV (optional)")
		refDateS = flag.String("refdate", "", "analysis reference date, YYYY-MM-DD")
		status   = flag.String("status", "ACTIVE", "leave status to classify")
		outDir   = flag.String("out", ".", "output directory")
	)
	flag.Parse()

	lg := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	refDate, e := time.Parse("2006-01-02", *refDateS)
	if e != nil {
		lg.Fatal().Err(e).Msg("-refdate is required, format YYYY-MM-DD")
	}

	var raw *cp.Table
	if raw, e = loadRaw(*source, *dataPath, *query); e != nil {
		lg.Fatal().Err(e).Msg("cannot load raw table")
	}

	lg.Info().Int("rows", raw.RowCount()).Int("columns", raw.ColumnCount()).Msg("raw table loaded")

	if e = clean.NewNormalizer(lg).Run(raw); e != nil {
		lg.Fatal().Err(e).Msg("normalizer failed")
	}

	lg.Info().Int("rows", raw.RowCount()).Msg("table cleaned")

	cfg := classify.NewConfig(refDate)
	cfg.Status = *status

	var recs classify.Records
	if recs, e = classify.Classify(raw, cfg); e != nil {
		lg.Fatal().Err(e).Msg("classifier failed")
	}

	lg.Info().Int("employees", len(recs)).Msg("employees classified")

	if e = writeOutputs(*outDir, *boroughs, raw, recs, refDate, lg); e != nil {
		lg.Fatal().Err(e).Msg("cannot write outputs")
	}
}

func loadRaw(source, dataPath, query string) (*cp.Table, error) {
	switch source {
	case "file":
		if dataPath == "" {
			return nil, fmt.Errorf("-data is required with source=file")
		}

		var (
			f *cp.Files
			e error
		)
		if f, e = cp.NewFiles(); e != nil {
			return nil, e
		}

		if e = f.Open(dataPath); e != nil {
			return nil, e
		}
		defer func() { _ = f.Close() }()

		return cp.FileLoad(f)
	case "clickhouse", "postgres":
		if query == "" {
			return nil, fmt.Errorf("-query is required with source=%s", source)
		}

		var (
			db *sql.DB
			e  error
		)
		if source == "clickhouse" {
			db, e = cp.NewConnectCH(os.Getenv("CH_HOST"), os.Getenv("CH_USER"), os.Getenv("CH_PASSWORD"))
		} else {
			db, e = cp.NewConnectPG(os.Getenv("PG_HOST"), os.Getenv("PG_USER"), os.Getenv("PG_PASSWORD"), os.Getenv("PG_DB"))
		}
		if e != nil {
			return nil, e
		}

		var dlct *cp.Dialect
		if dlct, e = cp.NewDialect(source, db); e != nil {
			return nil, e
		}
		defer func() { _ = dlct.Close() }()

		return dlct.Load(query)
	default:
		return nil, fmt.Errorf("unknown source %s", source)
	}
}

func writeOutputs(outDir, boroughPath string, cleaned *cp.Table, recs classify.Records, refDate time.Time, lg zerolog.Logger) error {
	if e := saveTable(filepath.Join(outDir, "cleaned.csv"), cleaned); e != nil {
		return e
	}

	var (
		classified *cp.Table
		e          error
	)
	if classified, e = recs.ToTable(); e != nil {
		return e
	}

	if e = saveTable(filepath.Join(outDir, "classified.csv"), classified); e != nil {
		return e
	}

	for _, li := range report.LevelIncome(recs) {
		lg.Info().Str("level", li.Level).Float64("meanIncome", li.MeanIncome).Int("n", li.Count).Msg("income by level")
	}

	var overtime []report.OvertimeRow
	if overtime, e = report.OvertimeReliance(cleaned); e != nil {
		return e
	}

	for ind := 0; ind < len(overtime) && ind < 10; ind++ {
		lg.Info().Str("agency", overtime[ind].Agency).
			Float64("otHoursRatio", overtime[ind].OTHoursRatio).
			Float64("otPayShare", overtime[ind].OTPayShare).Msg("overtime reliance")
	}

	var wages []float64
	if wages, e = report.HourlyWage(cleaned, []float64{0.1, 0.25, 0.5, 0.75, 0.9}); e != nil {
		return e
	}

	lg.Info().Floats64("quantiles", wages).Msg("hourly wage distribution")

	if boroughPath == "" {
		return nil
	}

	var lookup *cp.Table
	if lookup, e = loadRaw("file", boroughPath, ""); e != nil {
		return e
	}

	var bs []report.Borough
	if bs, e = report.BoroughsFromTable(lookup); e != nil {
		return e
	}

	var corr report.Correlation
	if corr, e = report.LocationCorrelation(cleaned, bs); e != nil {
		return e
	}

	lg.Info().Float64("incomeVsPopulation", corr.IncomePopulation).
		Float64("incomeVsHomeCost", corr.IncomeHomeCost).Msg("location correlation")

	return nil
}

func saveTable(fileName string, t *cp.Table) error {
	f, e := cp.NewFiles()
	if e != nil {
		return e
	}

	return f.Save(fileName, t)
}
