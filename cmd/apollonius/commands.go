// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/filter"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/render"
	"github.com/2dChan/apollonius/textio"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	svgWidth  = 1000
	svgHeight = 1000
)

func newVerticesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vertices",
		Short: "Print quadruples of balls with their tangent spheres",
		Long:  "stdin: balls, one 'x y z r # comment' per line\nstdout: 'i0 i1 i2 i3 x y z r volume' per tangent sphere",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spheres, err := a.readSpheres(cmd)
			if err != nil {
				return err
			}
			tr, err := triangulation.Construct(spheres, a.triangulationOptions()...)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"balls":           len(spheres),
				"quadruples":      len(tr.Quadruples),
				"tangent_spheres": tr.NumTangentSpheres(),
				"hidden":          len(tr.Hidden),
				"ignored":         len(tr.Ignored),
			}).Info("vertices computed")
			return textio.WriteVertices(cmd.OutOrStdout(), tr.Vertices(spheres))
		},
	}
}

func newContactsCmd(a *app) *cobra.Command {
	prm := contacts.DefaultParams()
	var volumesOutput, svgPath, stlPath string
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Print contact areas of neighboring balls",
		Long:  "stdin: balls, one 'x y z r # comment' per line\nstdout: 'a b area [tags]' per contact, 'a a area' for the solvent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spheres, err := a.readSpheres(cmd)
			if err != nil {
				return err
			}
			prm.Probe = a.cfg.Contacts.Probe
			prm.Step = a.cfg.Contacts.Step
			prm.Projections = a.cfg.Contacts.Projections
			prm.SIHDepth = a.cfg.Contacts.SIHDepth
			prm.Tolerance = geom.Tolerance(a.cfg.Eps)
			prm.Workers = a.cfg.Workers
			prm.NumInput = len(spheres)
			prm.Volumes = volumesOutput != ""
			prm.Draw = prm.Draw || svgPath != "" || stlPath != ""
			prm.Logger = a.log

			all := append(slices.Clone(spheres), triangulation.ArtificialBoundary(spheres, 2*prm.Probe)...)
			tr, err := triangulation.Construct(all, a.triangulationOptions()...)
			if err != nil {
				return err
			}
			res, err := contacts.ConstructContext(cmd.Context(), all, tr.Vertices(all), prm)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"balls":    len(spheres),
				"contacts": len(res.Contacts),
				"probe":    prm.Probe,
			}).Info("contacts computed")

			if err := textio.WriteContacts(cmd.OutOrStdout(), res.Contacts); err != nil {
				return err
			}
			if volumesOutput != "" {
				if err := writeFile(volumesOutput, func(f *os.File) error { return textio.WriteVolumes(f, res.Volumes) }); err != nil {
					return err
				}
			}
			if svgPath != "" {
				if err := writeFile(svgPath, func(f *os.File) error {
					return render.WriteSVG(f, res.Contacts, spheres, svgWidth, svgHeight)
				}); err != nil {
					return err
				}
			}
			if stlPath != "" {
				return render.WriteSTL(stlPath, res.Contacts)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&a.flags.Contacts.Probe, "probe", a.flags.Contacts.Probe, "probe radius")
	f.Float64Var(&a.flags.Contacts.Step, "step", a.flags.Contacts.Step, "curve step length")
	f.IntVar(&a.flags.Contacts.Projections, "projections", a.flags.Contacts.Projections, "curve optimization depth")
	f.IntVar(&a.flags.Contacts.SIHDepth, "sih-depth", a.flags.Contacts.SIHDepth, "spherical surface optimization depth")
	f.BoolVar(&prm.Draw, "draw", false, "keep contact graphics")
	f.BoolVar(&prm.TagCentrality, "tag-centrality", false, "tag contacts by centrality")
	f.BoolVar(&prm.TagPeripheral, "tag-peripherial", false, "tag peripherial contacts")
	f.BoolVar(&prm.SolventDirection, "solvent-direction", false, "compute solvent directions")
	f.BoolVar(&prm.BoundaryArcs, "boundary-arcs", false, "compute contact boundary arcs")
	f.StringVar(&volumesOutput, "volumes-output", "", "file to write cell volumes to")
	f.StringVar(&svgPath, "svg", "", "file to draw contacts to as SVG")
	f.StringVar(&stlPath, "stl", "", "file to save contacts to as STL")
	return cmd
}

func newQueryVerticesCmd(a *app) *cobra.Command {
	q := filter.DefaultQuery()
	var (
		ids          []int
		verticesPath string
	)
	cmd := &cobra.Command{
		Use:   "query-vertices",
		Short: "Select vertices by ball ids, radius and edge length",
		Long:  "stdin: balls, one 'x y z r # comment' per line\nstdout: matched 'i0 i1 i2 i3 x y z r volume' lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spheres, err := a.readSpheres(cmd)
			if err != nil {
				return err
			}
			var vertices []triangulation.Vertex
			if verticesPath != "" {
				f, err := os.Open(verticesPath)
				if err != nil {
					return err
				}
				vertices, err = textio.ReadVertices(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("read vertices: %w", err)
				}
			} else {
				tr, err := triangulation.Construct(spheres, a.triangulationOptions()...)
				if err != nil {
					return err
				}
				vertices = tr.Vertices(spheres)
			}

			if cmd.Flags().Changed("ids") {
				q.IDs = make(map[int]struct{}, len(ids))
				for _, id := range ids {
					q.IDs[id] = struct{}{}
				}
			}
			q.Workers = a.cfg.Workers
			q.Tolerance = geom.Tolerance(a.cfg.Eps)
			res, err := filter.MatchVertices(cmd.Context(), spheres, vertices, q)
			if err != nil {
				return err
			}
			matched := make([]triangulation.Vertex, len(res.Vertices))
			for i, vi := range res.Vertices {
				matched[i] = vertices[vi.ID]
			}
			a.log.WithFields(logrus.Fields{
				"vertices":     len(vertices),
				"matched":      len(matched),
				"total_volume": res.TotalVolume,
			}).Info("vertices matched")
			return textio.WriteVertices(cmd.OutOrStdout(), matched)
		},
	}
	f := cmd.Flags()
	f.IntSliceVar(&ids, "ids", nil, "ball ids of interest")
	f.BoolVar(&q.Strict, "strict", false, "require all four balls to be of interest")
	f.Float64Var(&q.MinRadius, "min-radius", q.MinRadius, "exclusive minimum tangent radius")
	f.Float64Var(&q.MaxRadius, "max-radius", q.MaxRadius, "exclusive maximum tangent radius")
	f.Float64Var(&q.MaxEdge, "max-edge", q.MaxEdge, "exclusive maximum distance between ball centers")
	f.Float64Var(&q.Expansion, "expansion", 0, "match ids among balls hit by the expanded tangent sphere")
	f.BoolVar(&q.ExcludeHull, "exclude-hull", false, "skip vertices on the convex hull")
	f.StringVar(&verticesPath, "vertices", "", "file with precomputed vertices")
	return cmd
}

func newTetrahedralVolumesCmd(a *app) *cobra.Command {
	var probes []float64
	cmd := &cobra.Command{
		Use:   "tetrahedral-volumes",
		Short: "Print the full and probe-shaped volumes of the tetrahedra",
		Long:  "stdin: balls, one 'x y z r # comment' per line\nstdout: a header and one line of volumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			spheres, err := a.readSpheres(cmd)
			if err != nil {
				return err
			}
			tr, err := triangulation.Construct(spheres, a.triangulationOptions()...)
			if err != nil {
				return err
			}
			full, shaped := filter.ProbeVolumes(spheres, tr.Vertices(spheres), probes)

			header := []string{"balls", "quadruples", "full_volume"}
			values := []string{strconv.Itoa(len(spheres)), strconv.Itoa(len(tr.Quadruples)), formatFloat(full)}
			for i, p := range probes {
				header = append(header, "probe_"+formatFloat(p))
				values = append(values, formatFloat(shaped[i]))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", strings.Join(header, " "), strings.Join(values, " "))
			return err
		},
	}
	cmd.Flags().Float64SliceVar(&probes, "probes", nil, "probe radii")
	return cmd
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
