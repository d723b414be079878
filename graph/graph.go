// Package graph persists chain-of-title data to Neo4j.
//
// Nodes: Party, Instrument, Tract, Section. Relationships: CONVEYED
// (party to party, carrying the instrument reference), COVERS
// (instrument to tract), IN_SECTION (tract to section), REFERENCES
// (instrument to instrument). Parties merge on normalized name, tracts
// on spatial key, so the same owner or parcel written differently
// across documents lands on one node.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds the Neo4j connection settings.
type Config struct {
	URI      string
	User     string
	Password string
	Database string
	Logger   *slog.Logger
}

// FromEnv loads connection settings from NEO4J_URI, NEO4J_USER,
// NEO4J_PASSWORD, and NEO4J_DATABASE.
func FromEnv() Config {
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	database := os.Getenv("NEO4J_DATABASE")
	if database == "" {
		database = "neo4j"
	}
	return Config{
		URI:      os.Getenv("NEO4J_URI"),
		User:     user,
		Password: os.Getenv("NEO4J_PASSWORD"),
		Database: database,
	}
}

// Builder writes and queries the title graph.
type Builder struct {
	driver neo4j.DriverWithContext
	config Config
	log    *slog.Logger
}

// New connects to Neo4j with the given configuration.
func New(config Config) (*Builder, error) {
	if config.URI == "" {
		return nil, fmt.Errorf("Neo4j URI not configured: set NEO4J_URI or Config.URI")
	}
	if config.Database == "" {
		config.Database = "neo4j"
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	driver, err := neo4j.NewDriverWithContext(config.URI, neo4j.BasicAuth(config.User, config.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating Neo4j driver: %w", err)
	}

	return &Builder{driver: driver, config: config, log: log}, nil
}

// Close releases the driver's connections.
func (b *Builder) Close(ctx context.Context) error {
	return b.driver.Close(ctx)
}

// VerifyConnection checks the database is reachable.
func (b *Builder) VerifyConnection(ctx context.Context) error {
	if err := b.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("connecting to Neo4j: %w", err)
	}
	return nil
}

// run executes one write query and returns the eager result.
func (b *Builder) run(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(ctx, b.driver, cypher, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(b.config.Database))
}

// CreateSchema creates the uniqueness constraints and indexes the
// queries rely on. Safe to run repeatedly.
func (b *Builder) CreateSchema(ctx context.Context) error {
	statements := []string{
		"CREATE CONSTRAINT party_id IF NOT EXISTS FOR (p:Party) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT instrument_id IF NOT EXISTS FOR (i:Instrument) REQUIRE i.id IS UNIQUE",
		"CREATE CONSTRAINT tract_id IF NOT EXISTS FOR (t:Tract) REQUIRE t.id IS UNIQUE",
		"CREATE CONSTRAINT tract_spatial_key IF NOT EXISTS FOR (t:Tract) REQUIRE t.spatialKey IS UNIQUE",
		"CREATE CONSTRAINT section_key IF NOT EXISTS FOR (s:Section) REQUIRE s.sectionKey IS UNIQUE",
		"CREATE INDEX party_normalized_name IF NOT EXISTS FOR (p:Party) ON (p.normalizedName)",
		"CREATE INDEX instrument_doc_number IF NOT EXISTS FOR (i:Instrument) ON (i.documentNumber)",
		"CREATE INDEX instrument_recording IF NOT EXISTS FOR (i:Instrument) ON (i.book, i.page)",
		"CREATE INDEX instrument_type IF NOT EXISTS FOR (i:Instrument) ON (i.documentType)",
		"CREATE INDEX tract_county IF NOT EXISTS FOR (t:Tract) ON (t.county, t.state)",
		"CREATE INDEX section_county IF NOT EXISTS FOR (s:Section) ON (s.county, s.state)",
	}

	for _, stmt := range statements {
		if _, err := b.run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	b.log.Info("graph schema ready")
	return nil
}

// Stats reports node and relationship counts.
func (b *Builder) Stats(ctx context.Context) (map[string]int64, error) {
	result, err := b.run(ctx, `
		MATCH (p:Party) WITH count(p) AS parties
		MATCH (i:Instrument) WITH parties, count(i) AS instruments
		MATCH (t:Tract) WITH parties, instruments, count(t) AS tracts
		MATCH (s:Section) WITH parties, instruments, tracts, count(s) AS sections
		OPTIONAL MATCH ()-[c:CONVEYED]->()
		WITH parties, instruments, tracts, sections, count(c) AS conveyances
		OPTIONAL MATCH ()-[r:COVERS]->()
		RETURN parties, instruments, tracts, sections, conveyances, count(r) AS covers`,
		nil)
	if err != nil {
		return nil, fmt.Errorf("collecting graph stats: %w", err)
	}

	stats := make(map[string]int64)
	if len(result.Records) == 0 {
		return stats, nil
	}
	record := result.Records[0]
	for i, key := range record.Keys {
		if n, ok := record.Values[i].(int64); ok {
			stats[key] = n
		}
	}
	return stats, nil
}

// ClearAll deletes every node and relationship. Destructive; intended
// for test databases only.
func (b *Builder) ClearAll(ctx context.Context) error {
	if _, err := b.run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}
	b.log.Warn("cleared all data from graph")
	return nil
}
