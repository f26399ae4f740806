/*
Package counter implements contract keeping a single non-negative counter.

Anyone can increment, decrement or reset the counter. Decrement of zero
counter keeps it zero.
*/
package counter

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'count' -> int
   current counter value, missing value means zero
*/
