// Package store is the generic data access layer over the single inventory
// table. Every entity type shares one physical DynamoDB table and is placed
// by the key templates in package keyspace; the store knows nothing about
// business rules.
//
// # Operations
//
// Typed operations are package-level generic functions taking the Store
// handle:
//
//	product, err := store.Create(ctx, st, product)
//	product, err = store.Get[inventory.Product](ctx, st, keyspace.ProductPrimary(id))
//	products, err := store.Find[inventory.Product](ctx, st, store.Query{...})
//	product, err = store.Update(ctx, st, product)
//	err = store.Remove(ctx, st, keyspace.ProductPrimary(id))
//	products, err = store.Scan[inventory.Product](ctx, st)
//
// Multi-item conditional writes go through [Store.TransactPut]; the stock
// mutation protocol uses it to land the level rewrite and the ledger append
// atomically.
//
// # Managed fields
//
// The store owns createdAt/updatedAt stamping, id generation for entity
// types implementing [IDGenerator], key recomputation on every write, and
// the entityType discriminator.
//
// # Errors
//
//   - [ErrNotFound] - no item at the requested key
//   - [ErrDuplicateKey] - create against an occupied primary key
//   - [ErrSchemaMismatch] - table provisioned with an incompatible format
//   - [ConditionFailedError] - a transaction item lost its condition check
//
// Client and throughput failures from the SDK pass through unchanged; the
// store never retries or swallows them.
package store
