// Package datatypes provides composite entries that expand structured source
// files into entry subtrees: a CSV file whose rows become child records, and
// a JSON document whose objects, arrays, and scalars become a nested
// hierarchy.
//
// Both composites implement [edrm.Composite]; adding one through
// nli.Generator.AddEntry (or calling AddToBuilder directly) registers the
// file entry followed by its generated children. Row and node generation is
// pluggable, so sources with meaningful names or timestamps can substitute
// their own entry variants without reimplementing the expansion.
package datatypes
