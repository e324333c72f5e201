// Package lattice is a multi-tenant hybrid retrieval and
// relationship-query engine. Given a tenant's partitioned collection
// of document chunks, vector embeddings, and directed typed edges, it
// answers semantic similarity search, lexical search, fused hybrid
// search, and graph relationship queries (single-hop lookup and
// bounded-depth path discovery).
//
// The engine is orchestration: nearest-neighbor search is delegated
// to the underlying store, embeddings to the provider adapter. Every
// operation is scoped to the tenant the client was constructed with;
// cross-tenant access is rejected at the gateway.
//
// Basic usage:
//
//	st, err := store.NewBadgerStore(store.BadgerOptions{Path: "./data", Dimension: 1536})
//	emb := embedder.NewOpenAIEmbedder(apiKey, embedder.Config{})
//	client, err := lattice.NewClient(st, emb, &lattice.Config{TenantID: "acme", VectorDimension: 1536}, nil)
//	results, err := client.HybridSearch(ctx, "shipping delays", 10, 0.7, types.SearchFilter{})
package lattice
