package nli

import (
	"time"

	"github.com/beevik/etree"
)

// Identity recorded in the container properties.
const (
	creationSoftwareName    = "caseforge nli"
	creationSoftwareVersion = "0.1.0"
)

// writeMetadataFile writes the container property list consumed by ingestion
// tooling alongside the load file.
func (g *Generator) writeMetadataFile(path string) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	properties := doc.CreateElement("image-metadata").CreateElement("properties")
	addProperty := func(key, value string) {
		p := properties.CreateElement("property")
		p.CreateAttr("key", key)
		p.CreateAttr("value", value)
	}

	addProperty("case-number", g.cfg.caseNumber)
	addProperty("creation-datetime", time.Now().Format("2006/01/02 15:04:05.000")+" UTC")
	addProperty("creation-software-name", creationSoftwareName)
	addProperty("creation-software-version", creationSoftwareVersion)
	addProperty("evidence-number", g.cfg.evidenceNumber)
	addProperty("examiner-name", g.cfg.examiner)

	doc.Indent(4)
	return doc.WriteToFile(path)
}
