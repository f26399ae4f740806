/*
Package token implements minimal fungible token contract.

The contract keeps balances of Neo accounts (script hashes) and lets token
administrator mint new tokens and account owners transfer them to other
accounts. Sum of all balances always equals total minted amount: transfers
only move tokens between accounts and there is no burning. Balances are never
negative and never exceed 2^127-1.

Token configuration (administrator, decimal precision, name and symbol) is set
once with Initialize method or by deployment data and can't be changed
afterwards. Name, Symbol, Decimals and Mint fail until the token is
initialized.

Any failed call (missing witness, insufficient balance, invalid arguments)
aborts the whole transaction, so no partial state change is ever persisted.

The contract produces no notifications.
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'admin' -> interop.Hash160
   token administrator allowed to mint
 - 'decimal' -> int
   decimal precision of token amounts
 - 'name' -> string
   token name
 - 'symbol' -> string
   token symbol
 - 'supply' -> int
   sum of all minted amounts
 - 'b' + interop.Hash160 -> int
   balance of the account; zero balances are not stored

# Configuration
Contract stores configuration under fixed keys, see tokenconst package.

# Balances
Contract stores positive balances of all accounts under 'b'-prefixed keys.
*/
