/*
Package ledger implements token ledger with the semantics of the token contract
outside of the Neo blockchain.

Ledger keeps its state in the injected storage.Store using exactly the same
layout as the contract keeps in its storage (see tokenconst package), so
storage of the deployed contract can be copied into the Ledger store and read
back without conversion.

Every state-changing call works on the cache over the persistent store and
flushes it only if the call succeeds, so failed calls never leave partial
changes. Calls are serialized, so Ledger can be shared between goroutines.

Authorization proofs are provided by callers in the form of Authorizer
checking whether the call was witnessed by the given account.
*/
package ledger
