/*
Package domain contains the core types of the ordinal engine.

It defines compiled sequence patterns, the results of walking an ordered
filename list (gaps and runs), rename plans, and the error kinds every
operation reports. This package is kept pure and free of I/O, following the
Hexagonal Architecture used across the module.

# Key Entities

  - Pattern: a compiled sequence expression (prefix, numeric field width, suffix).
  - Gap: where a contiguous run of filenames stops, and why.
  - Run: the filenames marked while walking a contiguous run.
  - Plan: an ordered list of renames computed before anything is applied.
*/
package domain
