// Package template compiles wildcard templates such as "foo(*)" and matches
// them against text using the cursor operations of package scanner.
//
// A template is a sequence of literals and wildcards. Matching locates each
// literal in order; a wildcard captures whatever lies between its neighbours.
// Templates can be paired into rewrite rules and loaded from YAML:
//
//	rules:
//	  - name: len-size
//	    template: "len(*)"
//	    rewrite: "size(*)"
package template
