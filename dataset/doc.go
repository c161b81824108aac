// Package dataset implements the spectra dataset store: a container for all
// data describing a volcanic-gas spectroscopy analysis, from raw instrument
// scans over target and instrument metadata to retrieved concentrations and
// gas-flux estimates.
//
// A Dataset owns a single store file. Elements are staged in mutable Buffer
// values (TargetBuffer, RawDataBuffer, ConcentrationBuffer, ...) and
// committed with New, which validates cross-references and index bounds,
// assigns a resource ID and appends the record to the file. Committed
// elements are immutable handles whose accessors return copies; references
// between elements (Flux to Concentration to RawData, and so on) resolve
// through the owning Dataset.
//
// # Basic usage
//
//	d, _ := dataset.Create("campaign.spc")
//	defer d.Close()
//
//	_ = d.RegisterTags("WI001")
//	target, _ := d.New(&dataset.TargetBuffer{
//	    TargetID: "WI001",
//	    Name:     "White Island main vent",
//	    Position: []float64{177.2, -37.5, 50},
//	    Tags:     []string{"WI001"},
//	})
//
//	for t := range d.Targets() {
//	    fmt.Println(t.Name())
//	}
//	_ = target
//
// Foreign instrument logs are parsed with ReadFile into buffers, which the
// caller links together and commits. Format readers register themselves with
// RegisterFormat; importing the flyspec package registers the FLYSPEC reader.
package dataset
