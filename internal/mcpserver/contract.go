package mcpserver

// UsageContract is served both as a resource and via the
// get_pantry_contract tool so clients can discover the input rules
// before calling mutating tools.
const UsageContract = `# Pantry Usage Contract

## Categories

Five fixed category keys. There is no way to create others:

- fruits_vegetables
- grains
- non_veg
- dairy
- others

## Dates

All dates are strictly dd/mm/yyyy with zero padding (e.g. 05/04/2025).
Any other format is rejected.

## Items

An item is identified by its (name, expiry_date) pair within a
category. Adding a second item with the same pair fails; the same
name with a different expiry date is a distinct item.

Every item carries an expiry tag stamped at add time from the gap
between today and the expiry date:

- past         -> "Expired"
- within 7d    -> "Expiry in a week"
- within 30d   -> "Expiry in 1 month"
- within 60d   -> "Expiry in 2 months"
- beyond       -> "Expiry in N months" (N = days/30, integer division)

Tags are not recomputed afterwards.

## Recipe matching

suggest_recipes matches the item name as an exact, case-insensitive
ingredient token. "egg" matches a recipe listing "egg" but not one
listing "eggplant" or "egg yolk". No substring or fuzzy matching.
`
