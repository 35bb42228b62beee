// Package tree holds the data model of a parsed ForSure document.
//
// A Document is a forest of ProjectItem nodes in document order. Level-1
// headings produce Project items, deeper headings and <directory> blocks
// produce Directory items, <file> blocks produce File items and list markers
// produce ListItem items. Content-only tags such as <description> never create
// nodes; they fill fields of the enclosing item.
//
// The parser builds documents through an Arena and freezes them with
// Arena.Build. Format writes a document back to ForSure text, Print writes an
// indented outline and ToJSON / ToYAML export the tree for other tools.
package tree
