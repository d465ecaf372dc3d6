// Package settings persists the per-layer chart display configuration:
// visibility and render order of every named layer, the shallow/safety/deep
// depth thresholds and the soundings flag.
//
// A Store loads its document eagerly when opened and writes it back once,
// when closed. Problems with the document never surface as errors: a missing
// or malformed file yields an empty layer set and zero depths.
//
// The on-disk document is XML by default:
//
//	<Settings>
//	  <DisplaySoundings>True</DisplaySoundings>
//	  <Depths><Shallow>2</Shallow><Safety>10</Safety><Deep>30</Deep></Depths>
//	  <Layers>
//	    <Layer><Id>42</Id><Name>DEPARE</Name><Description>Depth area</Description>
//	           <Display>True</Display><Order>1</Order></Layer>
//	  </Layers>
//	</Settings>
//
// Files ending in .yaml or .yml use the equivalent YAML document.
package settings
