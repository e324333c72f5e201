package store

// Cypher templates for the neo4j-backed gateway. Every template is
// fully parameterized; query text is never assembled from caller
// input, and the tenant predicate leads every match.
//
// Relation types are modeled as a property on a single RELATED
// relationship rather than as Cypher relationship types, which keeps
// the relation name a bound parameter.

const (
	cypherDocumentGet = `
		MATCH (d:Document {tenant_id: $tenant_id, id: $id})
		RETURN d.id AS id, d.source_type AS source_type, d.content AS content,
		       d.metadata AS metadata, d.created_at AS created_at, d.updated_at AS updated_at`

	cypherDocumentScan = `
		MATCH (d:Document {tenant_id: $tenant_id})
		WHERE d.id > $after
		RETURN d.id AS id, d.source_type AS source_type, d.content AS content,
		       d.metadata AS metadata, d.created_at AS created_at, d.updated_at AS updated_at
		ORDER BY d.id ASC
		LIMIT $limit`

	cypherDocumentUpsert = `
		MERGE (d:Document {tenant_id: $tenant_id, id: $id})
		SET d.source_type = $source_type, d.content = $content,
		    d.metadata = $metadata, d.created_at = $created_at, d.updated_at = $updated_at`

	cypherInsightGet = `
		MATCH (i:Insight {tenant_id: $tenant_id, id: $id})
		RETURN i.id AS id, i.title AS title, i.body AS body,
		       i.source_docs AS source_docs, i.metadata AS metadata, i.created_at AS created_at`

	cypherInsightScan = `
		MATCH (i:Insight {tenant_id: $tenant_id})
		WHERE i.id > $after
		RETURN i.id AS id, i.title AS title, i.body AS body,
		       i.source_docs AS source_docs, i.metadata AS metadata, i.created_at AS created_at
		ORDER BY i.id ASC
		LIMIT $limit`

	cypherInsightUpsert = `
		MERGE (i:Insight {tenant_id: $tenant_id, id: $id})
		SET i.title = $title, i.body = $body, i.source_docs = $source_docs,
		    i.metadata = $metadata, i.created_at = $created_at`

	cypherChunkUpsert = `
		MERGE (c:Chunk {tenant_id: $tenant_id, document_id: $document_id, chunk_id: $chunk_id})
		SET c.text = $text, c.embedding = $embedding,
		    c.source_type = $source_type, c.metadata = $metadata`

	cypherChunkANN = `
		CALL db.index.vector.queryNodes('chunk_embeddings', $fetch, $vector)
		YIELD node, score
		WHERE node.tenant_id = $tenant_id
		  AND ($source_type = '' OR node.source_type = $source_type)
		RETURN node.document_id AS document_id, node.chunk_id AS chunk_id,
		       node.text AS text, node.metadata AS metadata
		ORDER BY score DESC
		LIMIT $limit`

	cypherChunkContains = `
		MATCH (c:Chunk {tenant_id: $tenant_id})
		WHERE toLower(c.text) CONTAINS $needle
		  AND ($source_type = '' OR c.source_type = $source_type)
		RETURN c.document_id AS document_id, c.chunk_id AS chunk_id,
		       c.text AS text, c.metadata AS metadata
		LIMIT $limit`

	cypherEdgeExact = `
		MATCH (a:Entity {tenant_id: $tenant_id, id: $from})-[r:RELATED]->(b:Entity {tenant_id: $tenant_id, id: $to})
		WHERE $relation = '' OR r.relation = $relation
		RETURN a.id AS from, b.id AS to, r.relation AS relation,
		       r.weight AS weight, r.properties AS properties
		LIMIT $limit`

	cypherEdgeOutgoing = `
		MATCH (a:Entity {tenant_id: $tenant_id, id: $from})-[r:RELATED]->(b:Entity)
		WHERE ($relation = '' OR r.relation = $relation) AND b.tenant_id = $tenant_id
		RETURN a.id AS from, b.id AS to, r.relation AS relation,
		       r.weight AS weight, r.properties AS properties
		LIMIT $limit`

	cypherEdgeIncoming = `
		MATCH (a:Entity)-[r:RELATED]->(b:Entity {tenant_id: $tenant_id, id: $to})
		WHERE ($relation = '' OR r.relation = $relation) AND a.tenant_id = $tenant_id
		RETURN a.id AS from, b.id AS to, r.relation AS relation,
		       r.weight AS weight, r.properties AS properties
		LIMIT $limit`

	cypherEdgeByType = `
		MATCH (a:Entity {tenant_id: $tenant_id})-[r:RELATED {relation: $relation}]->(b:Entity)
		WHERE b.tenant_id = $tenant_id
		RETURN a.id AS from, b.id AS to, r.relation AS relation,
		       r.weight AS weight, r.properties AS properties
		LIMIT $limit`

	cypherEdgeUpsert = `
		MERGE (a:Entity {tenant_id: $tenant_id, id: $from})
		MERGE (b:Entity {tenant_id: $tenant_id, id: $to})
		MERGE (a)-[r:RELATED {relation: $relation}]->(b)
		SET r.weight = $weight, r.properties = $properties`

	cypherEdgeDelete = `
		MATCH (a:Entity {tenant_id: $tenant_id, id: $from})-[r:RELATED {relation: $relation}]->(b:Entity {tenant_id: $tenant_id, id: $to})
		DELETE r`
)

// edgeTemplates maps each query shape to its Cypher text.
var edgeTemplates = map[EdgeQueryKind]string{
	ExactEdge:     cypherEdgeExact,
	OutgoingEdges: cypherEdgeOutgoing,
	IncomingEdges: cypherEdgeIncoming,
	EdgesOfType:   cypherEdgeByType,
}
