/*
Package render turns resolved models into named output artifacts for one of
the supported Data Vault macro packages.

The dispatcher (Render) walks the resolved model in a fixed order and asks
the selected Convention for the text of each artifact. Conventions are
strategy implementations sharing the resolved-model shape but mapping it
onto different macro parameter names; they are selected by package
identifier via ConventionFor. The dispatcher computes the full artifact set
before anything touches disk, so a render failure never leaves partial
output behind.
*/
package render
