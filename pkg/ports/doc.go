/*
Package ports defines the driven ports (interfaces) of the ordinal engine.

The engine never lists directories, moves cursors or renames files itself.
Hosts (the CLI, the HTTP and MCP servers, editor integrations) supply these
capabilities, which keeps the matching and prediction logic testable against
an in-memory list.

# Key Interfaces

  - Lister: provides the ordered filenames a command operates on.
  - Cursor: walks that list one item at a time.
  - Marker: selects the item under the cursor.
  - Renamer: replaces a filename (the on-disk or in-buffer rename).
  - DefaultsStore: persists the advisory session defaults (last expression).
*/
package ports
