/*
Package resolve builds the intermediate Data Vault representation from a
validated declaration. It is the semantic core of the generator: everything
downstream (stage derivation, rendering) only reads what this package
produces.

Resolution is an explicit fold. A builder scoped to one Resolve call walks
every (source, column, connection) triple in declared order and accumulates:

  - entity hash key columns (key connections naming an entity target),
  - relation foreign key slots and the link hash key union (key connections
    naming a relation target, disambiguated to one entity slot),
  - satellite payload and multiactive key sets (attribute connections).

The declared order of sources and columns fixes every resulting column
order, so resolving the same document twice yields identical models. The
builder is discarded after producing the model; the model itself is never
mutated again.
*/
package resolve
