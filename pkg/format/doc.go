// Package format converts raw fixtures into wire shapes.
//
// JSONAPI turns a fixture into a JSON:API document: attributes keyed with
// dasherized names, nested associations as relationships and the related
// fixtures sideloaded under "included". A built list becomes one document
// whose "data" is an array. Related resources are typed with their model,
// looked up in the registry factory.New binds into the converter. For Make
// it produces a payload whose
// included payloads are pushed before the fixture referencing them.
package format
