// Package graph persists extracted user facts in Neo4j and narrates
// them back as conversation context. All writes are merge-style so
// repeated extraction of the same fact is a no-op beyond timestamp
// refresh, and every query passes the Cypher safety gate before
// execution.
package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"linguachat/internal/metrics"
	"linguachat/internal/model"
	"linguachat/pkg/errors"
	"linguachat/pkg/logger"
)

// allowedPredicates is the closed set of relationship labels. Free-text
// predicates are never interpolated into a query.
var allowedPredicates = map[string]bool{
	"HAS":      true,
	"LIKES":    true,
	"LIVES_IN": true,
	"WORKS_AS": true,
	"KNOWS":    true,
	"VISITED":  true,
	"WANTS":    true,
}

// Fact is one edge from the user node read back for context building
type Fact struct {
	Predicate  string
	Entity     string
	EntityType string
	CreatedAt  string
}

// Stats are basic node and edge counts
type Stats struct {
	Users         int64 `json:"users"`
	Entities      int64 `json:"entities"`
	Relationships int64 `json:"relationships"`
}

// Repository handles all Neo4j operations
type Repository struct {
	driver  neo4j.DriverWithContext
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewRepository creates a graph repository over an established driver
func NewRepository(driver neo4j.DriverWithContext, collector *metrics.Collector) *Repository {
	return &Repository{
		driver:  driver,
		metrics: collector,
		logger:  logger.Get().Named("graph"),
	}
}

// Close closes the underlying driver
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// run executes a query after the safety gate clears it
func (r *Repository) run(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	if err := ValidateCypher(query); err != nil {
		r.metrics.GraphRejected()
		r.logger.Warn("query rejected by safety gate", zap.Error(err))
		return nil, err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, errors.NewGraphQueryFailed(err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, errors.NewGraphQueryFailed(err)
	}
	return records, nil
}

// EnsureUser merges the user node, keyed by email
func (r *Repository) EnsureUser(ctx context.Context, user *model.User) error {
	query := `
		MERGE (u:User {email: $email})
		SET u.id = $id,
		    u.username = $username,
		    u.native_language = $nativeLanguage,
		    u.learning_language = $learningLanguage,
		    u.last_active = $timestamp
		RETURN u.id as user_id
	`
	_, err := r.run(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"email":            user.Email,
		"id":               user.ID,
		"username":         user.Username,
		"nativeLanguage":   user.NativeLanguage,
		"learningLanguage": user.LearningLanguage,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	r.logger.Info("user node ensured", zap.String("user_id", user.ID))
	return nil
}

// UpsertEntity merges an entity node keyed by (text, type)
func (r *Repository) UpsertEntity(ctx context.Context, userID string, entity model.Entity) error {
	query := `
		MERGE (u:User {id: $userID})
		MERGE (e:Entity {text: $text, type: $type})
		SET e.context = $context,
		    e.updated_at = $timestamp
	`
	_, err := r.run(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"userID":    userID,
		"text":      entity.Text,
		"type":      entity.Type,
		"context":   entity.Context,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	r.metrics.GraphWrite()
	return nil
}

// UpsertRelationship merges the target entity and an edge from the
// user node carrying the predicate and confidence. The predicate must
// be in the allowed set; it is passed as a parameter, never formatted
// into the query text.
func (r *Repository) UpsertRelationship(ctx context.Context, userID string, rel model.Relationship) error {
	if !allowedPredicates[rel.Predicate] {
		return errors.NewUnknownPredicate(rel.Predicate)
	}

	query := `
		MERGE (u:User {id: $userID})
		MERGE (e:Entity {text: $object})
		MERGE (u)-[r:RELATIONSHIP {type: $predicate}]->(e)
		SET r.confidence = $confidence,
		    r.updated_at = $timestamp
	`
	_, err := r.run(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"userID":     userID,
		"object":     rel.Object,
		"predicate":  rel.Predicate,
		"confidence": rel.Confidence,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	r.metrics.GraphWrite()
	return nil
}

// UserFacts returns the most recent edges from the user node
func (r *Repository) UserFacts(ctx context.Context, userID string, limit int) ([]Fact, error) {
	query := `
		MATCH (u:User {id: $userID})-[r:RELATIONSHIP]->(e:Entity)
		RETURN r.type as predicate, e.text as entity,
		       e.type as entity_type, r.updated_at as updated_at
		ORDER BY r.updated_at DESC
		LIMIT $limit
	`
	records, err := r.run(ctx, neo4j.AccessModeRead, query, map[string]interface{}{
		"userID": userID,
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(records))
	for _, record := range records {
		facts = append(facts, Fact{
			Predicate:  recordString(record, "predicate"),
			Entity:     recordString(record, "entity"),
			EntityType: recordString(record, "entity_type"),
			CreatedAt:  recordString(record, "updated_at"),
		})
	}
	return facts, nil
}

// Count returns node and edge counts for diagnostics
func (r *Repository) Count(ctx context.Context) (Stats, error) {
	var stats Stats

	queries := []struct {
		query string
		dest  *int64
	}{
		{"MATCH (u:User) RETURN count(u) as n", &stats.Users},
		{"MATCH (e:Entity) RETURN count(e) as n", &stats.Entities},
		{"MATCH ()-[r:RELATIONSHIP]->() RETURN count(r) as n", &stats.Relationships},
	}
	for _, q := range queries {
		records, err := r.run(ctx, neo4j.AccessModeRead, q.query, nil)
		if err != nil {
			return stats, err
		}
		if len(records) > 0 {
			if n, ok := records[0].Get("n"); ok {
				if v, ok := n.(int64); ok {
					*q.dest = v
				}
			}
		}
	}
	return stats, nil
}

func recordString(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
