// Package sisago implements a SISA (Sharded, Isolated, Sliced,
// Aggregated) retrieval index with targeted machine unlearning.
//
// Records are partitioned round-robin into disjoint shards, each shard
// trains its own TF-IDF nearest-neighbor model, and queries fan out to
// every shard with the global minimum cosine distance winning.
// Forgetting a person requires retraining only the shards that held
// their records; all other shard models stay bit-identical.
//
// # Quick Start
//
//	ctx := context.Background()
//	ix, _ := sisago.Build(ctx, records, 6)
//	defer ix.Close()
//
//	res, _ := ix.Query(ctx, "What is the email for John Doe?")
//	fmt.Println(res.Distance, res.RecordID, res.Decision)
//
//	report, _ := ix.Unlearn(ctx, "Li Garcia")
//	fmt.Println(report.AffectedShardIDs)
//
//	v, _ := ix.VerifyForgotten(ctx, "Li Garcia")
//	fmt.Println(v.Clean)
//
// # Aggregation rule
//
// The index answers with the single most confident shard: a record
// hidden in one shard is still discoverable through aggregation unless
// it is removed. That is the security property the unlearning workflow
// exists to close.
//
// # Key properties
//
//   - Disjoint partition: every record lives in exactly one shard
//   - Deterministic builds: same input order + shard count, same index
//   - Unlearning isolation: untouched shards stay bit-identical
//   - Verifiable forgetting: VerifyForgotten reports residual leakage
//     as data, never as an error
package sisago
