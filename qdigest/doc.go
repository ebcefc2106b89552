// Package qdigest defines a quantile digest over weighted byte-string keys built on
// a prefix trie.
//
// Every edge of the trie is labelled by one byte of a key, so a node's path from the
// root is the prefix it represents and an ascending-byte depth-first walk visits keys
// in lexicographic order.
//
// Node layout:
// -----------
//
//	[ weight:uint64 ] [ bitmap:[4]uint64 ] [ children:[]*node ]
//
//	bitmap has bit b set iff there is a child labelled with byte b;
//	children are stored densely in ascending label order, the index of
//	label b being popcount(bitmap bits below b).
//
// Life cycle:
// ----------
//
//   - Insert attributes a weight to the node at the end of the key's path
//     (never to its proper prefixes), creating missing nodes on the way.
//   - Compress(k) folds, bottom-up, every subtree whose aggregate weight does not
//     exceed TotalWeight()/k into its top node and prunes the subtree's children.
//     Weight only ever moves from a node to one of its ancestors.
//   - Quantile and Boundaries are read-only walks.
//
// Since weight only moves towards the root, and a prefix sorts before all of its
// extensions, Quantile(p) never returns a key greater than the exact p-th weighted
// quantile of the inserted keys.
//
// Example trie (after Compress with threshold 2):
//
//	                ,-- "0" -- "00" --+-- "001" -- "0011":9
//	                |                 |
//	  [root] -------+                 `-- "002" -- "0022":9
//	                |
//	                `-- "A":2
//
// The keys "AA11":1 and "AA22":1 were folded into "A".
//
// Neither QDigest nor its queries are safe for concurrent use with a mutator; wrap a
// digest into Sync to share it between goroutines.
package qdigest
