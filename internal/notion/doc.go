// Package notion models the remote document store: pages arranged in a tree,
// each holding an ordered sequence of content blocks.
//
// Store is the session every sync component talks to. Client implements it
// against the Notion public API; MemoryStore implements it in memory for tests
// and dry runs.
package notion
