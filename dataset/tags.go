package dataset

import (
	"fmt"

	"github.com/geogaslab/spectra/encoding"
	"github.com/geogaslab/spectra/endian"
	"github.com/geogaslab/spectra/errs"
	"github.com/geogaslab/spectra/section"
)

// RegisterTags adds tag names to the dataset registry. Only registered tags
// can be attached to elements. Registering a name twice fails with an error
// wrapping errs.ErrTagAlreadyRegistered; none of the names are registered
// in that case.
func (d *Dataset) RegisterTags(tags ...string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			return fmt.Errorf("cannot register an empty tag")
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("%w: %q", errs.ErrTagAlreadyRegistered, tag)
		}
		seen[tag] = struct{}{}
		if _, exists := d.tagSet[tag]; exists {
			return fmt.Errorf("%w: %q", errs.ErrTagAlreadyRegistered, tag)
		}
	}

	payload, err := encodeTagList(tags, d.header.GetEndianEngine())
	if err != nil {
		return err
	}
	fh := section.FrameHeader{Flags: section.FrameFlagTagRegistry, Length: uint32(len(payload))}
	if err := d.appendFrame(fh, payload); err != nil {
		return err
	}
	for _, tag := range tags {
		d.addTag(tag)
	}
	return nil
}

// RemoveTags retracts tag names from the registry and strips them from
// every element carrying them. Names that are not registered are ignored.
func (d *Dataset) RemoveTags(tags ...string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	known := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, exists := d.tagSet[tag]; exists {
			known = append(known, tag)
		}
	}
	if len(known) == 0 {
		return nil
	}

	payload, err := encodeTagList(known, d.header.GetEndianEngine())
	if err != nil {
		return err
	}
	fh := section.FrameHeader{Flags: section.FrameFlagTagRetract, Length: uint32(len(payload))}
	if err := d.appendFrame(fh, payload); err != nil {
		return err
	}
	for _, tag := range known {
		d.dropTag(tag)
	}
	return nil
}

// RegisteredTags returns the registered tag names in registration order.
func (d *Dataset) RegisteredTags() []string {
	return append([]string(nil), d.tagOrder...)
}

// checkTags verifies every tag is registered.
func (d *Dataset) checkTags(tags []string) error {
	for _, tag := range tags {
		if _, ok := d.tagSet[tag]; !ok {
			return fmt.Errorf("%w: %q", errs.ErrTagNotRegistered, tag)
		}
	}
	return nil
}

func (d *Dataset) addTag(tag string) {
	if _, exists := d.tagSet[tag]; exists {
		return
	}
	d.tagSet[tag] = struct{}{}
	d.tagOrder = append(d.tagOrder, tag)
}

// dropTag removes the tag from the registry and from every element.
func (d *Dataset) dropTag(tag string) {
	if _, exists := d.tagSet[tag]; !exists {
		return
	}
	delete(d.tagSet, tag)
	for i, t := range d.tagOrder {
		if t == tag {
			d.tagOrder = append(d.tagOrder[:i], d.tagOrder[i+1:]...)
			break
		}
	}
	for _, rec := range d.byID {
		rec.dropTag(tag)
	}
}

func encodeTagList(tags []string, engine endian.EndianEngine) ([]byte, error) {
	return encoding.AppendStrings(nil, tags, engine)
}

func decodeTagList(payload []byte, engine endian.EndianEngine) ([]string, error) {
	tags, err := decodeAllStrings(payload, engine)
	if err != nil {
		return nil, fmt.Errorf("decode tag frame: %w", err)
	}
	return tags, nil
}

// decodeAllStrings decodes length-prefixed strings until the payload is
// exhausted.
func decodeAllStrings(payload []byte, engine endian.EndianEngine) ([]string, error) {
	var out []string
	for len(payload) > 0 {
		if len(payload) < 2 {
			return nil, errs.ErrMalformedRecord
		}
		n := int(engine.Uint16(payload[:2]))
		if len(payload) < 2+n {
			return nil, errs.ErrMalformedRecord
		}
		out = append(out, string(payload[2:2+n]))
		payload = payload[2+n:]
	}
	return out, nil
}
