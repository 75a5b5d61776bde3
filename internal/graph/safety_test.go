package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linguachat/pkg/errors"
)

func TestValidateCypherAllowsMergeQueries(t *testing.T) {
	queries := []string{
		"MERGE (u:User {id: $id})",
		"MATCH (u:User) RETURN u",
		"CREATE (e:Entity {text: $text})",
		"  MATCH (u:User)-[r]->(e) RETURN r",
		"WITH $rows AS rows RETURN rows",
	}
	for _, q := range queries {
		assert.NoError(t, ValidateCypher(q), "query: %s", q)
	}
}

func TestValidateCypherRejectsDestructiveKeywords(t *testing.T) {
	queries := []string{
		"DROP INDEX user_id",
		"MATCH (n) DETACH DELETE ALL",
		"match (n) delete all",
		"MATCH (u:User) REMOVE u.email",
	}
	for _, q := range queries {
		err := ValidateCypher(q)
		assert.Error(t, err, "query: %s", q)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeGraph))
	}
}

func TestValidateCypherRejectsUnknownStartingVerb(t *testing.T) {
	err := ValidateCypher("CALL db.labels()")
	assert.Error(t, err)

	err = ValidateCypher("RETURN 1")
	assert.Error(t, err)

	err = ValidateCypher("UNWIND $rows AS row MERGE (e:Entity {text: row.text})")
	assert.Error(t, err, "UNWIND is not in the allowed verb set")
}

func TestRepositoryQueriesPassTheGate(t *testing.T) {
	// The queries the repository itself issues must clear the gate
	queries := []string{
		"MERGE (u:User {email: $email}) SET u.id = $id RETURN u.id as user_id",
		"MATCH (u:User {id: $userID})-[r:RELATIONSHIP]->(e:Entity) RETURN r.type as predicate",
		"MATCH (u:User) RETURN count(u) as n",
	}
	for _, q := range queries {
		assert.NoError(t, ValidateCypher(q), "query: %s", q)
	}
}
